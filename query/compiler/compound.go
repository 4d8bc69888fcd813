package compiler

import (
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// compound compiles q and its compound parts. The base statement is q
// without its ordering and pagination; those apply to the combined result.
//
// Each part is compiled on its own and, under Postgres, its placeholders are
// shifted past the parameters already bound before its values are appended.
func (c *Compiler) compound(q *ast.Query, args *sqlgen.Args, existsProjection bool) string {
	base := q.Clone()
	base.OrderBy = nil
	base.Limit = nil
	base.Offset = nil
	base.CompoundQueries = nil

	var b strings.Builder
	b.WriteString(c.selectInto(base, args, existsProjection))

	for _, part := range q.CompoundQueries {
		sub := sqlgen.NewArgs(c.backend)
		sql := c.selectInto(part.Other, sub, existsProjection)
		if c.backend.Numbered() && sub.Len() > 0 {
			sql = sqlgen.RenumberPlaceholders(sql, args.Len())
		}
		args.Extend(sub.Values())

		b.WriteString(" ")
		b.WriteString(string(part.Type))
		b.WriteString(" ")
		b.WriteString(sql)
	}

	b.WriteString(c.orderAndLimit(q))
	return b.String()
}
