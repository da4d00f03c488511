package compiler

import (
	"errors"
	"fmt"
	"io"

	"toyc/pkg/ir"
)

// ErrUnsupportedNode marks an AST variant or operator the generator has no
// emission rule for. It is a reported failure, never a silent nil result.
var ErrUnsupportedNode = errors.New("unsupported AST node")

// CodeGen lowers an AST into an IR module through an explicit builder
// context. One CodeGen serves one compile; it is not reentrant across
// concurrent compiles.
type CodeGen struct {
	mod *ir.Module
	b   *ir.Builder
}

func NewCodeGen(moduleName string) *CodeGen {
	mod := ir.NewModule(moduleName)
	return &CodeGen{mod: mod, b: ir.NewBuilder(mod)}
}

// Module returns the module built so far.
func (cg *CodeGen) Module() *ir.Module { return cg.mod }

// genExpr emits IR for one node and returns the value holding its result.
// Dispatch is an exhaustive switch over the node variants; every variant is
// either implemented or explicitly deferred with ErrUnsupportedNode.
func (cg *CodeGen) genExpr(b *ir.Builder, n Node) (ir.Value, error) {
	switch n := n.(type) {
	case *NumberLiteral:
		return b.ConstInt32(n.Value), nil

	case *BinaryOp:
		l, err := cg.genExpr(b, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := cg.genExpr(b, n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case '+':
			return b.Add(l, r), nil
		case '-':
			return b.Sub(l, r), nil
		case '*':
			return b.Mul(l, r), nil
		case '/':
			return b.Div(l, r), nil
		default:
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedNode, n.Op)
		}

	case *Conditional:
		return nil, fmt.Errorf("%w: conditional", ErrUnsupportedNode)
	case *Loop:
		return nil, fmt.Errorf("%w: loop", ErrUnsupportedNode)
	case *Call:
		return nil, fmt.Errorf("%w: call to %q", ErrUnsupportedNode, n.Name)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
	}
}

// Generate lowers the top-level expression into a main function that prints
// its result and returns it, and hands back the finished module.
func (cg *CodeGen) Generate(root Node) (*ir.Module, error) {
	cg.b.NewFunc("main")
	v, err := cg.genExpr(cg.b, root)
	if err != nil {
		return nil, err
	}
	cg.b.Print(v)
	cg.b.Ret(v)
	return cg.mod, nil
}

// PrintIR writes the accumulated module in its human-readable text form.
func (cg *CodeGen) PrintIR(w io.Writer) {
	fmt.Fprint(w, cg.mod)
}
