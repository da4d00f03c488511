// Package ir defines the typed intermediate representation produced by the
// code generator and consumed by the execution backend. A Module holds
// functions, a function holds labelled blocks, and a block holds instructions
// operating on 32-bit signed integer values.
package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Op identifies an IR instruction.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPrint // writes its operand to the runtime output channel
	OpRet   // block terminator
)

var opNames = [...]string{
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpPrint: "print",
	OpRet:   "ret",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsValue reports whether the instruction produces a result that later
// instructions may reference.
func (o Op) IsValue() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// arity is the operand count the instruction requires.
func (o Op) arity() int {
	if o.IsValue() {
		return 2
	}
	return 1 // print and ret take the value they consume
}

// Value is an operand of an instruction: either an inline Const or the
// numbered result of an earlier *Instr.
type Value interface {
	operand() string
}

// Const is an i32 constant, printed inline at its use sites.
type Const struct {
	Val int32
}

func (c Const) operand() string { return strconv.FormatInt(int64(c.Val), 10) }

// Instr is a single IR instruction. Value-producing instructions carry a
// function-unique ID and print as %ID; print and ret carry ID -1.
type Instr struct {
	ID   int
	Op   Op
	Args []Value
}

func (i *Instr) operand() string { return "%" + strconv.Itoa(i.ID) }

func (i *Instr) String() string {
	var sb strings.Builder
	if i.Op.IsValue() {
		fmt.Fprintf(&sb, "%%%d = %s i32", i.ID, i.Op)
	} else {
		fmt.Fprintf(&sb, "%s", i.Op)
	}
	for n, a := range i.Args {
		if n > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(a.operand())
	}
	return sb.String()
}

// Block is a labelled instruction sequence ending in a terminator.
type Block struct {
	Label  string
	Instrs []*Instr
}

// Func is a named function returning i32.
type Func struct {
	Name   string
	Blocks []*Block
}

// Module is the unit handed to the execution backend.
type Module struct {
	Name  string
	Funcs []*Func
}

func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// String renders the module in its human-readable text form.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)
	for _, f := range m.Funcs {
		fmt.Fprintf(&sb, "\nfunc %s() i32 {\n", f.Name)
		for _, b := range f.Blocks {
			fmt.Fprintf(&sb, "%s:\n", b.Label)
			for _, in := range b.Instrs {
				fmt.Fprintf(&sb, "  %s\n", in)
			}
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

// Verify checks that the module is structurally sound: every function has at
// least one block, every block ends in ret, value IDs are unique within a
// function, and every instruction argument is defined earlier in the same
// function.
func (m *Module) Verify() error {
	if len(m.Funcs) == 0 {
		return fmt.Errorf("module %s: no functions", m.Name)
	}
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			return fmt.Errorf("func %s: no blocks", f.Name)
		}
		defined := make(map[*Instr]bool)
		ids := make(map[int]bool)
		for _, b := range f.Blocks {
			if len(b.Instrs) == 0 {
				return fmt.Errorf("func %s: block %s is empty", f.Name, b.Label)
			}
			for n, in := range b.Instrs {
				last := n == len(b.Instrs)-1
				if (in.Op == OpRet) != last {
					return fmt.Errorf("func %s: block %s: ret must be the final instruction", f.Name, b.Label)
				}
				if len(in.Args) != in.Op.arity() {
					return fmt.Errorf("func %s: block %s: %s takes %d operands, has %d",
						f.Name, b.Label, in.Op, in.Op.arity(), len(in.Args))
				}
				for _, a := range in.Args {
					if a == nil {
						return fmt.Errorf("func %s: block %s: %s has a nil operand", f.Name, b.Label, in.Op)
					}
					ref, ok := a.(*Instr)
					if !ok {
						continue
					}
					if !defined[ref] {
						return fmt.Errorf("func %s: block %s: %s uses an undefined value", f.Name, b.Label, in.Op)
					}
				}
				if in.Op.IsValue() {
					if ids[in.ID] {
						return fmt.Errorf("func %s: duplicate value id %%%d", f.Name, in.ID)
					}
					ids[in.ID] = true
					defined[in] = true
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the module. Instruction references are
// remapped so the copy shares no state with the original.
func (m *Module) Clone() *Module {
	out := &Module{Name: m.Name}
	for _, f := range m.Funcs {
		nf := &Func{Name: f.Name}
		remap := make(map[*Instr]*Instr)
		for _, b := range f.Blocks {
			nb := &Block{Label: b.Label}
			for _, in := range b.Instrs {
				ni := &Instr{ID: in.ID, Op: in.Op}
				for _, a := range in.Args {
					if ref, ok := a.(*Instr); ok {
						ni.Args = append(ni.Args, remap[ref])
					} else {
						ni.Args = append(ni.Args, a)
					}
				}
				remap[in] = ni
				nb.Instrs = append(nb.Instrs, ni)
			}
			nf.Blocks = append(nf.Blocks, nb)
		}
		out.Funcs = append(out.Funcs, nf)
	}
	return out
}
