package compiler

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST variant. Nodes are created during parsing,
// read (never mutated) during code generation, and discarded after one
// compile. The tree is acyclic; every child is exclusively owned by its
// parent except Call arguments, which may be shared between nodes.
type Node interface {
	node()
	String() string
}

// NumberLiteral is an integer constant.
//
//	5 + 3;
//	^      NumberLiteral{Value: 5}
type NumberLiteral struct {
	Value int32
}

func (*NumberLiteral) node()            {}
func (n *NumberLiteral) String() string { return fmt.Sprintf("%d", n.Value) }

// BinaryOp represents Left Op Right. Both operands are exclusively owned.
type BinaryOp struct {
	Op    byte // one of '+' '-' '*' '/'
	Left  Node
	Right Node
}

func (*BinaryOp) node() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %c %s)", b.Left, b.Op, b.Right)
}

// Conditional represents if cond then [else]. Else is nil when absent.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

func (*Conditional) node() {}
func (c *Conditional) String() string {
	if c.Else != nil {
		return fmt.Sprintf("If(%s then %s else %s)", c.Cond, c.Then, c.Else)
	}
	return fmt.Sprintf("If(%s then %s)", c.Cond, c.Then)
}

// Loop represents while cond body.
type Loop struct {
	Cond Node
	Body Node
}

func (*Loop) node() {}
func (l *Loop) String() string {
	return fmt.Sprintf("While(%s do %s)", l.Cond, l.Body)
}

// Call represents name(args). Arguments are shared, not exclusively owned:
// multiple call sites may reference the same subtree without copying. The
// grammar never produces Call nodes today; the variant exists for forward
// compatibility.
type Call struct {
	Name string
	Args []Node
}

func (*Call) node() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
