// Package document loads query documents: YAML (or JSON) descriptions of
// statements that the CLI compiles or executes.
//
//	version: "1"
//	statement: select
//	table: users
//	where: 'name__icontains = "al" AND age >= 18'
//	order_by: ["-created_at"]
//	limit: 10
//
// A file may hold several documents separated by "---".
package document

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/builder"
	"github.com/satishbabariya/querycompiler/query/parser"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// SupportedVersions is the constraint a document's version must satisfy.
const SupportedVersions = ">= 1.0, < 2.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrUnknownStatement   = errors.New("unknown statement")
)

// Document is one statement description.
type Document struct {
	Version   string         `yaml:"version" json:"version"`
	Name      string         `yaml:"name,omitempty" json:"name,omitempty"`
	Dialect   string         `yaml:"dialect,omitempty" json:"dialect,omitempty"`
	Statement string         `yaml:"statement,omitempty" json:"statement,omitempty"`
	Table     string         `yaml:"table" json:"table"`
	Select    []string       `yaml:"select,omitempty" json:"select,omitempty"`
	Distinct  bool           `yaml:"distinct,omitempty" json:"distinct,omitempty"`
	Where     string         `yaml:"where,omitempty" json:"where,omitempty"`
	Filter    map[string]any `yaml:"filter,omitempty" json:"filter,omitempty"`
	Exclude   map[string]any `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	OrderBy   []string       `yaml:"order_by,omitempty" json:"order_by,omitempty"`
	GroupBy   []string       `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	Count     string         `yaml:"count,omitempty" json:"count,omitempty"`
	Limit     *int           `yaml:"limit,omitempty" json:"limit,omitempty"`
	Offset    *int           `yaml:"offset,omitempty" json:"offset,omitempty"`
	Union     []Document     `yaml:"union,omitempty" json:"union,omitempty"`
	UnionAll  []Document     `yaml:"union_all,omitempty" json:"union_all,omitempty"`
	Values    map[string]any `yaml:"values,omitempty" json:"values,omitempty"`
	Columns   []string       `yaml:"columns,omitempty" json:"columns,omitempty"`
	Rows      [][]any        `yaml:"rows,omitempty" json:"rows,omitempty"`
	Returning []string       `yaml:"returning,omitempty" json:"returning,omitempty"`
}

// Load decodes every document in r. An empty version defaults to "1".
func Load(r io.Reader) ([]Document, error) {
	dec := yaml.NewDecoder(r)

	var docs []Document
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document %d: %w", len(docs)+1, err)
		}
		if err := doc.checkVersion(); err != nil {
			return nil, fmt.Errorf("document %d: %w", len(docs)+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadString decodes documents from a string.
func LoadString(s string) ([]Document, error) {
	return Load(strings.NewReader(s))
}

func (d *Document) checkVersion() error {
	if d.Version == "" {
		d.Version = "1"
	}
	v, err := version.NewVersion(d.Version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, d.Version, err)
	}
	c, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

// Backend returns the document's dialect, or fallback when it names none.
func (d Document) Backend(fallback sqlgen.Backend) (sqlgen.Backend, error) {
	if d.Dialect == "" {
		return fallback, nil
	}
	return sqlgen.ParseBackend(d.Dialect)
}

// IsQuery reports whether the document describes a statement returning rows.
func (d Document) IsQuery() bool {
	switch strings.ToLower(d.Statement) {
	case "", "select":
		return true
	case "insert":
		return len(d.Returning) > 0
	}
	return false
}

// Build turns the document into a statement node for backend b.
func (d Document) Build(b sqlgen.Backend) (ast.QueryNode, error) {
	switch strings.ToLower(d.Statement) {
	case "", "select":
		return d.buildSelect(b)
	case "insert":
		ib := builder.NewInsertBuilder(d.Table).Returning(d.Returning...)
		for _, k := range sortedKeys(d.Values) {
			ib.Set(k, d.Values[k])
		}
		return ib.Build()
	case "bulk_insert":
		rows := make([][]value.Value, len(d.Rows))
		for i, row := range d.Rows {
			rows[i] = make([]value.Value, len(row))
			for j, v := range row {
				val, err := value.Of(v)
				if err != nil {
					return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
				}
				rows[i][j] = val
			}
		}
		return &ast.BulkInsert{Table: d.Table, Columns: d.Columns, Rows: rows}, nil
	case "update":
		ub := builder.NewUpdateBuilder(d.Table, b)
		for _, k := range sortedKeys(d.Values) {
			ub.Set(k, d.Values[k])
		}
		where, err := d.where(b)
		if err != nil {
			return nil, err
		}
		if where != nil {
			ub.Where().Node(where)
		}
		return ub.Build()
	case "delete":
		db := builder.NewDeleteBuilder(d.Table, b)
		where, err := d.where(b)
		if err != nil {
			return nil, err
		}
		if where != nil {
			db.Where().Node(where)
		}
		return db.Build()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStatement, d.Statement)
}

func (d Document) buildSelect(b sqlgen.Backend) (*ast.Query, error) {
	qb, err := d.queryBuilder(b)
	if err != nil {
		return nil, err
	}
	return qb.Build()
}

func (d Document) queryBuilder(b sqlgen.Backend) (*builder.QueryBuilder, error) {
	qb := builder.NewQueryBuilder(d.Table, b)
	if len(d.Select) > 0 {
		qb.Select(d.Select...)
	}
	if d.Distinct {
		qb.Distinct()
	}

	where, err := d.where(b)
	if err != nil {
		return nil, err
	}
	if where != nil {
		qb.Where(where)
	}

	if len(d.GroupBy) > 0 {
		qb.GroupBy(d.GroupBy...)
	}
	if d.Count != "" {
		qb.Aggregate(d.Count, ast.Count(""))
	}
	if len(d.OrderBy) > 0 {
		qb.OrderBy(d.OrderBy...)
	}
	if d.Limit != nil {
		qb.Limit(*d.Limit)
	}
	if d.Offset != nil {
		qb.Offset(*d.Offset)
	}

	for _, other := range d.Union {
		ob, err := other.queryBuilder(b)
		if err != nil {
			return nil, fmt.Errorf("union: %w", err)
		}
		qb.Union(ob)
	}
	for _, other := range d.UnionAll {
		ob, err := other.queryBuilder(b)
		if err != nil {
			return nil, fmt.Errorf("union_all: %w", err)
		}
		qb.UnionAll(ob)
	}
	return qb, nil
}

// where combines the filter text with the filter and exclude maps.
// It returns nil when the document has no condition at all.
func (d Document) where(b sqlgen.Backend) (ast.WhereNode, error) {
	var nodes []ast.WhereNode

	if strings.TrimSpace(d.Where) != "" {
		node, err := parser.New(b).ParseString(d.Where)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if len(d.Filter) > 0 || len(d.Exclude) > 0 {
		wb := builder.NewWhereBuilder(b)
		for _, k := range sortedKeys(d.Filter) {
			wb.Filter(k, d.Filter[k])
		}
		for _, k := range sortedKeys(d.Exclude) {
			wb.Exclude(k, d.Exclude[k])
		}
		node, err := wb.Build()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	}
	return ast.And(nodes), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
