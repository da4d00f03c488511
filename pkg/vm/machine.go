package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrDivideByZero   = errors.New("vm: division by zero")
	ErrBadOpcode      = errors.New("vm: bad opcode")
	ErrNoSuchFunction = errors.New("vm: no such function")
)

// StackDepth bounds the operand stack of one run.
const StackDepth = 128

// Machine executes a Program. A fresh machine (or at least a fresh Run call)
// is expected per invocation; the machine keeps no state between runs beyond
// its output writer.
type Machine struct {
	stack  [StackDepth]int32
	sp     int
	locals []int32

	// Output receives print results. If nil, os.Stdout is used.
	Output io.Writer
}

func New() *Machine {
	return &Machine{}
}

func (m *Machine) out() io.Writer {
	if m.Output == nil {
		return os.Stdout
	}
	return m.Output
}

func (m *Machine) push(v int32) error {
	if m.sp >= StackDepth {
		return ErrStackOverflow
	}
	m.stack[m.sp] = v
	m.sp++
	return nil
}

func (m *Machine) pop() (int32, error) {
	if m.sp == 0 {
		return 0, ErrStackUnderflow
	}
	m.sp--
	return m.stack[m.sp], nil
}

// Run executes the named function of p until it halts.
func (m *Machine) Run(p *Program, entry string) error {
	fn, ok := p.Funcs[entry]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchFunction, entry)
	}

	m.sp = 0
	m.locals = make([]int32, fn.Slots)
	ip := fn.Entry

	for ip < len(p.Code) {
		op, operand := Decode(p.Code[ip])
		ip++

		switch op {
		case OpHalt:
			return nil

		case OpPush:
			if operand >= len(p.Consts) {
				return fmt.Errorf("%w: constant index %d out of range", ErrBadOpcode, operand)
			}
			if err := m.push(p.Consts[operand]); err != nil {
				return err
			}

		case OpLoad:
			if operand >= len(m.locals) {
				return fmt.Errorf("%w: local slot %d out of range", ErrBadOpcode, operand)
			}
			if err := m.push(m.locals[operand]); err != nil {
				return err
			}

		case OpStore:
			v, err := m.pop()
			if err != nil {
				return err
			}
			if operand >= len(m.locals) {
				return fmt.Errorf("%w: local slot %d out of range", ErrBadOpcode, operand)
			}
			m.locals[operand] = v

		case OpAdd, OpSub, OpMul, OpDiv:
			b, err := m.pop()
			if err != nil {
				return err
			}
			a, err := m.pop()
			if err != nil {
				return err
			}
			var r int32
			switch op {
			case OpAdd:
				r = a + b
			case OpSub:
				r = a - b
			case OpMul:
				r = a * b
			case OpDiv:
				if b == 0 {
					return ErrDivideByZero
				}
				r = a / b
			}
			if err := m.push(r); err != nil {
				return err
			}

		case OpPrint:
			v, err := m.pop()
			if err != nil {
				return err
			}
			fmt.Fprintln(m.out(), v)

		default:
			return fmt.Errorf("%w: 0x%02X at offset %d", ErrBadOpcode, op, ip-1)
		}
	}
	return nil
}
