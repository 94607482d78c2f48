package grammar

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/syntax"
)

// newReducerEnv declares the variables visible to reducer expressions:
// children (list of {kind, text, value}), text and name.
func newReducerEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("children", cel.ListType(cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable("text", cel.StringType),
		cel.Variable("name", cel.StringType),
	)
}

// treeReducer builds a node of kind name holding the children.
func treeReducer(name string) parser.Reducer[*syntax.Node] {
	return func(children []*syntax.Node) (*syntax.Node, error) {
		return syntax.New(name, children...), nil
	}
}

// celReducer compiles expr once. At reduction time the node keeps its
// children and the expression result becomes its Value.
func celReducer(env *cel.Env, name, expr string) (parser.Reducer[*syntax.Node], error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %s: `%s`: %w", ErrReducerCompile, name, expr, issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: `%s`: %w", ErrReducerCompile, name, expr, err)
	}

	return func(children []*syntax.Node) (*syntax.Node, error) {
		node := syntax.New(name, children...)

		args := make([]any, len(children))
		for i, child := range children {
			args[i] = map[string]any{
				"kind":  child.Kind,
				"text":  child.Text(),
				"value": child.Value,
			}
		}

		result, _, err := program.Eval(map[string]any{
			"children": args,
			"text":     node.Text(),
			"name":     name,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: `%s`: %w", ErrReducerEval, expr, err)
		}

		node.Value = toNative(result)

		return node, nil
	}, nil
}

// toNative converts a CEL value into plain Go values so that it can be fed
// back into other expressions and encoded.
func toNative(v ref.Val) any {
	if v == nil || v.Type() == types.NullType {
		return nil
	}

	switch val := v.(type) {
	case traits.Mapper:
		result := make(map[string]any)

		it := val.Iterator()
		for it.HasNext() == types.True {
			key := it.Next()
			result[fmt.Sprint(key.Value())] = toNative(val.Get(key))
		}

		return result

	case traits.Lister:
		size, _ := val.Size().(types.Int)
		result := make([]any, 0, int(size))

		for i := types.Int(0); i < size; i++ {
			result = append(result, toNative(val.Get(i)))
		}

		return result
	}

	return v.Value()
}
