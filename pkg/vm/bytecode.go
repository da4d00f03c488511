// Package vm is the execution backend behind the engine bridge: it lowers a
// verified IR module into packed bytecode and runs it on a small stack
// machine.
package vm

import "fmt"

// Opcodes. Each code word packs the opcode into the high byte and a 24-bit
// operand into the low bits.
const (
	OpHalt  uint8 = 0x00
	OpPush  uint8 = 0x01 // operand: constant-pool index
	OpLoad  uint8 = 0x02 // operand: local slot
	OpStore uint8 = 0x03 // operand: local slot
	OpAdd   uint8 = 0x04
	OpSub   uint8 = 0x05
	OpMul   uint8 = 0x06
	OpDiv   uint8 = 0x07
	OpPrint uint8 = 0x08
)

const operandMask = 0x00FFFFFF

// Encode packs an opcode and operand into one code word.
func Encode(op uint8, operand int) uint32 {
	return uint32(op)<<24 | uint32(operand)&operandMask
}

// Decode splits a code word into opcode and operand.
func Decode(word uint32) (uint8, int) {
	return uint8(word >> 24), int(word & operandMask)
}

// FuncInfo locates one compiled function inside a Program.
type FuncInfo struct {
	Entry int // code offset of the first instruction
	Slots int // local slots the function needs
}

// Program is the compiled, invocable form of an IR module.
type Program struct {
	Code   []uint32
	Consts []int32
	Funcs  map[string]FuncInfo
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(code=%d words, consts=%d, funcs=%d)",
		len(p.Code), len(p.Consts), len(p.Funcs))
}
