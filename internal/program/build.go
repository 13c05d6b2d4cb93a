package program

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"k8s.io/klog/v2"

	"github.com/born-ml/ndgraph/internal/graph"
	"github.com/born-ml/ndgraph/internal/serialization"
	"github.com/born-ml/ndgraph/internal/source"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Build materializes the declared tensors on backend b and builds one graph
// per output. Relative tensor file paths are resolved against base.
func (f *File) Build(ctx context.Context, base source.Location, b tensor.Backend) (*Program, error) {
	bld := &builder{
		ctx:     ctx,
		base:    base,
		backend: b,
		files:   make(map[string]map[string]*tensor.RawTensor),
		scope:   make(map[string]graph.Operand),
	}

	p := &Program{Tensors: make(map[string]*tensor.Tensor, len(f.Tensors))}
	for _, decl := range f.Tensors {
		t, err := bld.tensor(decl)
		if err != nil {
			return nil, err
		}
		p.Tensors[decl.Name] = t
		bld.scope[decl.Name] = graph.Lazy(t)
	}

	for _, decl := range f.Outputs {
		expr, ok := decl.Expr.(hclsyntax.Expression)
		if !ok {
			return nil, errorf(decl.Expr.Range(), "output %s: unsupported expression", decl.Name)
		}
		value, err := bld.operand(expr)
		if err != nil {
			return nil, err
		}
		p.Outputs = append(p.Outputs, Output{Name: decl.Name, Value: value})

		// Later outputs referencing this one share its graph.
		bld.scope[decl.Name] = value
	}

	return p, nil
}

type builder struct {
	ctx     context.Context
	base    source.Location
	backend tensor.Backend
	files   map[string]map[string]*tensor.RawTensor
	scope   map[string]graph.Operand
}

func (bld *builder) tensor(decl *TensorDecl) (*tensor.Tensor, error) {
	var shape tensor.Shape
	hasShape := !isNull(decl.Shape)
	if hasShape {
		var dims []int
		if diags := gohcl.DecodeExpression(decl.Shape, nil, &dims); diags.HasErrors() {
			return nil, fmt.Errorf("tensor %s: %w", decl.Name, diags)
		}
		shape = tensor.Shape(dims)
	}

	if decl.File != nil {
		if !isNull(decl.Data) {
			return nil, errorf(decl.DeclRange, "tensor %s: data and file are mutually exclusive", decl.Name)
		}
		return bld.fileTensor(decl, shape, hasShape)
	}

	if !hasShape {
		return nil, errorf(decl.DeclRange, "tensor %s: shape is required unless file is set", decl.Name)
	}

	if isNull(decl.Data) {
		t, err := tensor.Zeros(shape, bld.backend)
		if err != nil {
			return nil, &Error{Range: decl.Shape.Range(), Err: err}
		}
		return t, nil
	}

	var data []float64
	if diags := gohcl.DecodeExpression(decl.Data, nil, &data); diags.HasErrors() {
		return nil, fmt.Errorf("tensor %s: %w", decl.Name, diags)
	}
	t, err := tensor.FromSlice(data, shape, bld.backend)
	if err != nil {
		return nil, &Error{Range: decl.Data.Range(), Err: err}
	}
	return t, nil
}

func (bld *builder) fileTensor(decl *TensorDecl, shape tensor.Shape, hasShape bool) (*tensor.Tensor, error) {
	log := klog.FromContext(bld.ctx)

	loc, err := bld.base.Resolve(*decl.File)
	if err != nil {
		return nil, &Error{Range: decl.DeclRange, Err: err}
	}

	tensors, ok := bld.files[loc.String()]
	if !ok {
		b, err := source.ReadAll(bld.ctx, loc)
		if err != nil {
			return nil, &Error{Range: decl.DeclRange, Err: err}
		}
		tensors, _, err = serialization.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, &Error{Range: decl.DeclRange, Err: fmt.Errorf("reading %s: %w", loc, err)}
		}
		bld.files[loc.String()] = tensors
		log.V(2).Info("loaded tensor file", "location", loc.String(), "tensors", len(tensors))
	}

	key := decl.Name
	if decl.Key != nil {
		key = *decl.Key
	}
	raw, ok := tensors[key]
	if !ok {
		return nil, errorf(decl.DeclRange, "tensor %s: %s has no tensor %q", decl.Name, loc, key)
	}

	if hasShape {
		want, err := tensor.ResolveShape(shape, raw.NumElements())
		if err != nil {
			return nil, &Error{Range: decl.Shape.Range(), Err: err}
		}
		if !want.Equal(raw.Shape()) {
			return nil, &Error{Range: decl.Shape.Range(), Err: &tensor.ShapeError{
				Op:     "load",
				Err:    tensor.ErrShapeMismatch,
				Shapes: []tensor.Shape{want, raw.Shape()},
				Dim:    -1,
			}}
		}
	}

	// Each declaration owns its buffer even when several share a file entry.
	return tensor.New(raw.Clone(), bld.backend), nil
}

func (bld *builder) operand(expr hclsyntax.Expression) (graph.Operand, error) {
	switch e := expr.(type) {
	case *hclsyntax.ParenthesesExpr:
		return bld.operand(e.Expression)

	case *hclsyntax.LiteralValueExpr:
		v, err := number(e.Val, e.Range())
		if err != nil {
			return nil, err
		}
		return bld.literal(v)

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return nil, errorf(e.Range(), "unsupported reference; expected a bare tensor or output name")
		}
		name := e.Traversal.RootName()
		value, ok := bld.scope[name]
		if !ok {
			return nil, errorf(e.Range(), "%q is not defined before this point", name)
		}
		return value, nil

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return nil, errorf(e.Range(), "unsupported unary operator")
		}
		if lit, ok := e.Val.(*hclsyntax.LiteralValueExpr); ok {
			v, err := number(lit.Val, lit.Range())
			if err != nil {
				return nil, err
			}
			return bld.literal(-v)
		}
		val, err := bld.operand(e.Val)
		if err != nil {
			return nil, err
		}
		zero, err := bld.literal(0)
		if err != nil {
			return nil, err
		}
		return bld.node(tensor.OpSub, zero, val, e.Range())

	case *hclsyntax.BinaryOpExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, errorf(e.Range(), "unsupported binary operator; expected one of + - * /")
		}
		lhs, err := bld.operand(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := bld.operand(e.RHS)
		if err != nil {
			return nil, err
		}
		return bld.node(op, lhs, rhs, e.Range())

	default:
		return nil, errorf(expr.Range(), "unsupported expression %T", expr)
	}
}

var binaryOps = map[*hclsyntax.Operation]tensor.BinaryOp{
	hclsyntax.OpAdd:      tensor.OpAdd,
	hclsyntax.OpSubtract: tensor.OpSub,
	hclsyntax.OpMultiply: tensor.OpMul,
	hclsyntax.OpDivide:   tensor.OpDiv,
}

func (bld *builder) node(op tensor.BinaryOp, lhs, rhs graph.Operand, rng hcl.Range) (graph.Operand, error) {
	n, err := graph.NewNode(op, lhs, rhs)
	if err != nil {
		return nil, &Error{Range: rng, Err: err}
	}
	return n, nil
}

// literal wraps a number as a one-element tensor.
func (bld *builder) literal(v float64) (graph.Operand, error) {
	t, err := tensor.FromSlice([]float64{v}, tensor.Shape{1}, bld.backend)
	if err != nil {
		return nil, err
	}
	return graph.Lazy(t), nil
}

func number(v cty.Value, rng hcl.Range) (float64, error) {
	if !v.Type().Equals(cty.Number) || v.IsNull() || !v.IsKnown() {
		return 0, errorf(rng, "expected a number, got %s", v.Type().FriendlyName())
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, &Error{Range: rng, Err: err}
	}
	return f, nil
}

// isNull reports whether an optional attribute was omitted or set to null.
func isNull(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}
