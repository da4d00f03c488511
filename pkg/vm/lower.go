package vm

import (
	"fmt"

	"toyc/pkg/ir"
)

// Compile verifies an IR module and lowers it to bytecode. Each IR value gets
// one local slot; operands are loaded onto the stack, the operation runs, and
// value results are stored back to their slot.
func Compile(mod *ir.Module) (*Program, error) {
	if err := mod.Verify(); err != nil {
		return nil, fmt.Errorf("invalid module: %w", err)
	}

	p := &Program{Funcs: make(map[string]FuncInfo)}
	constIdx := make(map[int32]int)

	pushConst := func(v int32) {
		idx, ok := constIdx[v]
		if !ok {
			idx = len(p.Consts)
			p.Consts = append(p.Consts, v)
			constIdx[v] = idx
		}
		p.Code = append(p.Code, Encode(OpPush, idx))
	}

	for _, f := range mod.Funcs {
		entry := len(p.Code)
		slots := make(map[*ir.Instr]int)

		pushOperand := func(v ir.Value) error {
			switch v := v.(type) {
			case ir.Const:
				pushConst(v.Val)
			case *ir.Instr:
				slot, ok := slots[v]
				if !ok {
					return fmt.Errorf("func %s: operand %%%d has no slot", f.Name, v.ID)
				}
				p.Code = append(p.Code, Encode(OpLoad, slot))
			default:
				return fmt.Errorf("func %s: unknown operand kind %T", f.Name, v)
			}
			return nil
		}

		for _, b := range f.Blocks {
			for _, in := range b.Instrs {
				switch in.Op {
				case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
					if err := pushOperand(in.Args[0]); err != nil {
						return nil, err
					}
					if err := pushOperand(in.Args[1]); err != nil {
						return nil, err
					}
					p.Code = append(p.Code, Encode(arithOp(in.Op), 0))
					slot := len(slots)
					slots[in] = slot
					p.Code = append(p.Code, Encode(OpStore, slot))

				case ir.OpPrint:
					if err := pushOperand(in.Args[0]); err != nil {
						return nil, err
					}
					p.Code = append(p.Code, Encode(OpPrint, 0))

				case ir.OpRet:
					// Return values are not captured; execution is run-for-effect.
					p.Code = append(p.Code, Encode(OpHalt, 0))

				default:
					return nil, fmt.Errorf("func %s: no lowering for %s", f.Name, in.Op)
				}
			}
		}

		p.Funcs[f.Name] = FuncInfo{Entry: entry, Slots: len(slots)}
	}
	return p, nil
}

func arithOp(op ir.Op) uint8 {
	switch op {
	case ir.OpAdd:
		return OpAdd
	case ir.OpSub:
		return OpSub
	case ir.OpMul:
		return OpMul
	}
	return OpDiv
}
