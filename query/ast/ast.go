// Package ast defines the dialect-neutral query AST (Abstract Syntax Tree).
//
// Every node family (statements, WHERE nodes, lookups, expressions, select
// columns, inheritance) is a closed sum type: the interfaces carry an
// unexported marker method, so only this package can add variants and the
// compilers can switch exhaustively.
package ast

import "github.com/satishbabariya/querycompiler/query/value"

// QueryNode represents a statement the compiler can turn into SQL.
type QueryNode interface {
	Type() NodeType
}

// NodeType represents the type of statement node
type NodeType string

const (
	NodeTypeSelect     NodeType = "Select"
	NodeTypeInsert     NodeType = "Insert"
	NodeTypeBulkInsert NodeType = "BulkInsert"
	NodeTypeUpdate     NodeType = "Update"
	NodeTypeDelete     NodeType = "Delete"
)

// Bookkeeping prefixes the ORM layer stores in GroupBy. They never reach SQL.
const (
	SelectRelatedHint   = "__select_related__"
	PrefetchRelatedHint = "__prefetch_related__"
)

// Query is one row-set definition.
//
// When CompoundQueries is non-empty, OrderBy, Limit and Offset apply to the
// combined result, never to the inner statement.
type Query struct {
	Table           string
	Select          []SelectColumn // empty selects *
	Where           WhereNode      // nil means no WHERE
	OrderBy         []OrderBy
	GroupBy         []string
	Having          WhereNode
	Joins           []Join
	Limit           *int
	Offset          *int
	Distinct        bool
	Annotations     map[string]Expression
	Aggregates      map[string]Expression
	CompoundQueries []CompoundQuery
	SelectRelated   []SelectRelatedField
	PrefetchRelated []PrefetchRelatedField
	Inheritance     Inheritance // nil means no inheritance
}

func (q *Query) Type() NodeType { return NodeTypeSelect }

// EffectiveTable returns the table the FROM clause targets. A proxy model
// always reads from its parent table.
func (q *Query) EffectiveTable() string {
	if p, ok := q.Inheritance.(Proxy); ok {
		return p.ParentTable
	}
	return q.Table
}

// Clone returns a copy of q whose slices can be modified without touching q.
// Expressions and WHERE trees are shared; they are read-only during compilation.
func (q *Query) Clone() *Query {
	c := *q
	c.Select = append([]SelectColumn(nil), q.Select...)
	c.OrderBy = append([]OrderBy(nil), q.OrderBy...)
	c.GroupBy = append([]string(nil), q.GroupBy...)
	c.Joins = append([]Join(nil), q.Joins...)
	c.CompoundQueries = append([]CompoundQuery(nil), q.CompoundQueries...)
	c.SelectRelated = append([]SelectRelatedField(nil), q.SelectRelated...)
	c.PrefetchRelated = append([]PrefetchRelatedField(nil), q.PrefetchRelated...)
	return &c
}

// OrderBy represents one ORDER BY term. NullsFirst is optional; nil leaves
// NULL placement to the database.
type OrderBy struct {
	Column     string
	Descending bool
	NullsFirst *bool
}

// Asc orders by column ascending.
func Asc(column string) OrderBy { return OrderBy{Column: column} }

// Desc orders by column descending.
func Desc(column string) OrderBy { return OrderBy{Column: column, Descending: true} }

// JoinType is the kind of an explicit JOIN.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
)

// Join is an explicit JOIN clause. On is compiled with the WHERE compiler.
type Join struct {
	Type  JoinType
	Table string
	Alias string
	On    WhereNode
}

// CompoundType is the set operator combining two statements.
type CompoundType string

const (
	Union     CompoundType = "UNION"
	UnionAll  CompoundType = "UNION ALL"
	Intersect CompoundType = "INTERSECT"
	Except    CompoundType = "EXCEPT"
)

// CompoundQuery combines the enclosing query with Other.
type CompoundQuery struct {
	Type  CompoundType
	Other *Query
}

// SelectRelatedField eager-loads a related row through a LEFT JOIN.
type SelectRelatedField struct {
	Field         string
	RelatedTable  string
	FKColumn      string // column on the querying table
	RelatedColumn string // column on the related table, usually its primary key
	Alias         string // defaults to Field
}

// JoinAlias returns the alias the related table is joined under.
func (f SelectRelatedField) JoinAlias() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Field
}

// PrefetchRelatedField eager-loads related rows with a separate batched query
// keyed by the parent rows' primary keys.
type PrefetchRelatedField struct {
	Field         string
	RelatedTable  string
	RelatedColumn string // column on the related table holding the parent key
	Where         WhereNode
	OrderBy       []OrderBy
	Through       *ThroughTable // many-to-many via a junction table
}

// ThroughTable describes a many-to-many junction table.
type ThroughTable struct {
	Table           string
	SourceColumn    string // references the parent primary key
	TargetColumn    string // references the related primary key
	RelatedPKColumn string
}

// Inheritance describes how a model maps onto physical tables.
type Inheritance interface {
	inheritance()
}

// MultiTable is a child table with a link column back to a shared parent table.
type MultiTable struct {
	ParentTable      string
	ParentLinkColumn string
	ParentPKColumn   string
}

func (MultiTable) inheritance() {}

// Proxy reuses its parent's physical table unchanged.
type Proxy struct {
	ParentTable string
}

func (Proxy) inheritance() {}

// SelectColumn is one entry of an explicit select list.
type SelectColumn interface {
	selectColumn()
}

// Column selects a bare column.
type Column struct {
	Name string
}

func (Column) selectColumn() {}

// TableColumn selects a table-qualified column.
type TableColumn struct {
	Table  string
	Column string
}

func (TableColumn) selectColumn() {}

// ExprColumn selects an expression under an optional alias.
type ExprColumn struct {
	Expr  Expression
	Alias string
}

func (ExprColumn) selectColumn() {}

// Star selects every column, optionally of a single table.
type Star struct {
	Table string
}

func (Star) selectColumn() {}

// Assignment is one column = expression pair in INSERT or UPDATE.
type Assignment struct {
	Column string
	Value  Expression
}

// Set builds an Assignment binding a plain value.
func Set(column string, v value.Value) Assignment {
	return Assignment{Column: column, Value: Val{Value: v}}
}

// Insert is a single-row INSERT.
type Insert struct {
	Table     string
	Fields    []Assignment
	Returning []string
}

func (*Insert) Type() NodeType { return NodeTypeInsert }

// BulkInsert inserts several rows sharing one column list.
type BulkInsert struct {
	Table   string
	Columns []string
	Rows    [][]value.Value
}

func (*BulkInsert) Type() NodeType { return NodeTypeBulkInsert }

// Update is an UPDATE statement.
type Update struct {
	Table  string
	Fields []Assignment
	Where  WhereNode
}

func (*Update) Type() NodeType { return NodeTypeUpdate }

// Delete is a DELETE statement.
type Delete struct {
	Table string
	Where WhereNode
}

func (*Delete) Type() NodeType { return NodeTypeDelete }
