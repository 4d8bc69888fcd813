package builder

import "github.com/satishbabariya/querycompiler/query/ast"

// AND adds a conjunction of the given builders
func (w *WhereBuilder) AND(builders ...*WhereBuilder) *WhereBuilder {
	w.Node(ast.And(w.collect(builders)))
	return w
}

// OR adds a disjunction of the given builders
func (w *WhereBuilder) OR(builders ...*WhereBuilder) *WhereBuilder {
	w.Node(ast.Or(w.collect(builders)))
	return w
}

// NOT adds the negation of a builder
func (w *WhereBuilder) NOT(builder *WhereBuilder) *WhereBuilder {
	nodes := w.collect([]*WhereBuilder{builder})
	if len(nodes) == 1 {
		w.Node(ast.Negate(nodes[0]))
	}
	return w
}

// Sub creates an independent WHERE builder sharing this builder's registry
// and backend, for use in AND/OR/NOT
func (w *WhereBuilder) Sub() *WhereBuilder {
	return &WhereBuilder{
		registry: w.registry,
		backend:  w.backend,
		operator: OperatorAnd,
	}
}

func (w *WhereBuilder) collect(builders []*WhereBuilder) []ast.WhereNode {
	nodes := make([]ast.WhereNode, 0, len(builders))
	for _, b := range builders {
		if b == nil {
			continue
		}
		node, err := b.Build()
		if err != nil {
			w.fail(err)
			continue
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
