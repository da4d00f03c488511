package ir

// Builder is the explicit IR-building context. It appends instructions to
// one insertion point at a time and numbers the values it creates. A builder
// serves a single compile; it is not safe for concurrent use.
type Builder struct {
	mod    *Module
	blk    *Block
	nextID int
}

func NewBuilder(mod *Module) *Builder {
	return &Builder{mod: mod}
}

// Module returns the module the builder appends to.
func (b *Builder) Module() *Module { return b.mod }

// NewFunc appends a function with an empty entry block and moves the
// insertion point there.
func (b *Builder) NewFunc(name string) *Func {
	f := &Func{Name: name}
	entry := &Block{Label: "entry"}
	f.Blocks = append(f.Blocks, entry)
	b.mod.Funcs = append(b.mod.Funcs, f)
	b.blk = entry
	return f
}

// SetInsertPoint directs subsequent instructions into blk.
func (b *Builder) SetInsertPoint(blk *Block) { b.blk = blk }

// ConstInt32 returns an inline i32 constant.
func (b *Builder) ConstInt32(v int32) Value { return Const{Val: v} }

func (b *Builder) binop(op Op, l, r Value) Value {
	in := &Instr{ID: b.nextID, Op: op, Args: []Value{l, r}}
	b.nextID++
	b.blk.Instrs = append(b.blk.Instrs, in)
	return in
}

func (b *Builder) Add(l, r Value) Value { return b.binop(OpAdd, l, r) }
func (b *Builder) Sub(l, r Value) Value { return b.binop(OpSub, l, r) }
func (b *Builder) Mul(l, r Value) Value { return b.binop(OpMul, l, r) }
func (b *Builder) Div(l, r Value) Value { return b.binop(OpDiv, l, r) }

// Print emits the run-for-effect output instruction.
func (b *Builder) Print(v Value) {
	b.blk.Instrs = append(b.blk.Instrs, &Instr{ID: -1, Op: OpPrint, Args: []Value{v}})
}

// Ret terminates the current block.
func (b *Builder) Ret(v Value) {
	b.blk.Instrs = append(b.blk.Instrs, &Instr{ID: -1, Op: OpRet, Args: []Value{v}})
}
