// Package program loads HCL program files that declare tensors and the
// lazily evaluated expressions computed from them.
//
//	tensor "a" {
//	  shape = [1, 3]
//	  data  = [1, 2, 3]
//	}
//	tensor "w" {
//	  file = "weights.safetensors"
//	}
//	output "table" {
//	  expr = (a + w) * 0.5
//	}
//
// Outputs may reference tensors and outputs declared before them.
package program

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"k8s.io/klog/v2"

	"github.com/born-ml/ndgraph/internal/graph"
	"github.com/born-ml/ndgraph/internal/source"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Error is a semantic error located in a program file.
type Error struct {
	Range hcl.Range
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Range, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(rng hcl.Range, format string, args ...any) error {
	return &Error{Range: rng, Err: fmt.Errorf(format, args...)}
}

// File is a parsed, not yet built, program.
type File struct {
	Filename string
	Tensors  []*TensorDecl
	Outputs  []*OutputDecl
}

// TensorDecl is a `tensor` block.
type TensorDecl struct {
	Name      string
	Shape     hcl.Expression
	Data      hcl.Expression
	File      *string
	Key       *string
	DeclRange hcl.Range
}

// OutputDecl is an `output` block.
type OutputDecl struct {
	Name      string
	Expr      hcl.Expression
	DeclRange hcl.Range
}

type tensorBlock struct {
	Shape hcl.Expression `hcl:"shape,optional"`
	Data  hcl.Expression `hcl:"data,optional"`
	File  *string        `hcl:"file,optional"`
	Key   *string        `hcl:"key,optional"`
}

type outputBlock struct {
	Expr hcl.Expression `hcl:"expr"`
}

// Parse parses program source. Names are checked for uniqueness;
// expressions are checked when the program is built.
func Parse(filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse program %s: %w", filename, diags)
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("program %s: unexpected body type %T", filename, hclFile.Body)
	}

	for _, attr := range body.Attributes {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected attribute",
			Detail:   fmt.Sprintf("Top-level attribute %q is not allowed; declare tensor and output blocks.", attr.Name),
			Subject:  attr.NameRange.Ptr(),
		})
	}

	f := &File{Filename: filename}
	declared := make(map[string]hcl.Range)

	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid block",
				Detail:   fmt.Sprintf("A %s block requires exactly one name label.", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		name := block.Labels[0]

		if prev, dup := declared[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate name",
				Detail:   fmt.Sprintf("%q was already declared at %s.", name, prev),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}

		switch block.Type {
		case "tensor":
			var tb tensorBlock
			if d := gohcl.DecodeBody(block.Body, nil, &tb); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			f.Tensors = append(f.Tensors, &TensorDecl{
				Name:      name,
				Shape:     tb.Shape,
				Data:      tb.Data,
				File:      tb.File,
				Key:       tb.Key,
				DeclRange: block.DefRange(),
			})
		case "output":
			var ob outputBlock
			if d := gohcl.DecodeBody(block.Body, nil, &ob); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			f.Outputs = append(f.Outputs, &OutputDecl{
				Name:      name,
				Expr:      ob.Expr,
				DeclRange: block.DefRange(),
			})
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported block type",
				Detail:   fmt.Sprintf("Blocks of type %q are not expected here; use tensor or output.", block.Type),
				Subject:  block.TypeRange.Ptr(),
			})
			continue
		}
		declared[name] = block.LabelRanges[0]
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode program %s: %w", filename, diags)
	}
	return f, nil
}

// Load reads, parses and builds the program at loc.
func Load(ctx context.Context, loc source.Location, b tensor.Backend) (*Program, error) {
	log := klog.FromContext(ctx)

	src, err := source.ReadAll(ctx, loc)
	if err != nil {
		return nil, err
	}

	f, err := Parse(loc.String(), src)
	if err != nil {
		return nil, err
	}

	log.V(2).Info("parsed program", "location", loc.String(), "tensors", len(f.Tensors), "outputs", len(f.Outputs))
	return f.Build(ctx, loc, b)
}

// Program is a built program: concrete tensors and one graph per output.
type Program struct {
	Tensors map[string]*tensor.Tensor
	Outputs []Output
}

// Output is a named, unevaluated result.
type Output struct {
	Name  string
	Value graph.Operand
}

// Result is an evaluated output.
type Result struct {
	Name   string
	Tensor *tensor.Tensor
}

// Evaluate computes every output in declaration order.
func (p *Program) Evaluate() ([]Result, error) {
	results := make([]Result, 0, len(p.Outputs))
	for _, out := range p.Outputs {
		t, err := graph.Eval(out.Value)
		if err != nil {
			return nil, fmt.Errorf("evaluating output %s: %w", out.Name, err)
		}
		results = append(results, Result{Name: out.Name, Tensor: t})
	}
	return results, nil
}
