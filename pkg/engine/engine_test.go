package engine

import (
	"bytes"
	"errors"
	"testing"

	"toyc/pkg/ir"
)

// additionModule builds main() { print 5 + 3; ret }.
func additionModule() *ir.Module {
	mod := ir.NewModule("toy")
	b := ir.NewBuilder(mod)
	b.NewFunc("main")
	v := b.Add(b.ConstInt32(5), b.ConstInt32(3))
	b.Print(v)
	b.Ret(v)
	return mod
}

func TestRoundTrip(t *testing.T) {
	var out bytes.Buffer
	s, err := NewSession(WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if err := s.AddModule(additionModule()); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	sym, err := s.Lookup("main")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if err := sym.Invoke(); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if out.String() != "8\n" {
		t.Errorf("output = %q, want %q", out.String(), "8\n")
	}
}

func TestRunHelper(t *testing.T) {
	var out bytes.Buffer
	if err := Run(additionModule(), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "8\n" {
		t.Errorf("output = %q, want %q", out.String(), "8\n")
	}
}

func TestAddModuleRejectsInvalid(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	err = s.AddModule(ir.NewModule("empty"))
	if !errors.Is(err, ErrCompile) {
		t.Errorf("AddModule error = %v, want ErrCompile", err)
	}
}

func TestAddModuleLeavesOriginalUsable(t *testing.T) {
	mod := additionModule()
	before := mod.String()

	var out bytes.Buffer
	if err := Run(mod, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The bridge works on a clone; the caller's module is still printable
	// and unchanged after execution.
	if mod.String() != before {
		t.Errorf("module dump changed across execution:\n%s\nvs\n%s", mod.String(), before)
	}
	if err := mod.Verify(); err != nil {
		t.Errorf("module no longer verifies after execution: %v", err)
	}
}

// A malformed instruction must come back as ErrCompile from module
// registration, never reach the lowering.
func TestAddModuleRejectsMalformedInstruction(t *testing.T) {
	mod := ir.NewModule("toy")
	mod.Funcs = append(mod.Funcs, &ir.Func{Name: "main", Blocks: []*ir.Block{{
		Label: "entry",
		Instrs: []*ir.Instr{
			{ID: -1, Op: ir.OpPrint}, // no operand
			{ID: -1, Op: ir.OpRet, Args: []ir.Value{ir.Const{Val: 0}}},
		},
	}}})

	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if err := s.AddModule(mod); !errors.Is(err, ErrCompile) {
		t.Errorf("AddModule error = %v, want ErrCompile", err)
	}
}

func TestLookupMissingSymbol(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if err := s.AddModule(additionModule()); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	if _, err := s.Lookup("start"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("Lookup error = %v, want ErrSymbolNotFound", err)
	}
}

func TestLookupBeforeAddModule(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Lookup("main"); !errors.Is(err, ErrNoModule) {
		t.Errorf("Lookup error = %v, want ErrNoModule", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	s, err := NewSession(WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.AddModule(additionModule()); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	sym, err := s.Lookup("main")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if err := sym.Invoke(); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	// Teardown must never re-invoke the entry point.
	if out.String() != "8\n" {
		t.Errorf("output after double close = %q, want a single %q", out.String(), "8\n")
	}
}

func TestClosedSessionRejectsUse(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.AddModule(additionModule()); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}
	sym, err := s.Lookup("main")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	s.Close()

	if err := s.AddModule(additionModule()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("AddModule after close = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Lookup("main"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Lookup after close = %v, want ErrSessionClosed", err)
	}
	if err := sym.Invoke(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Invoke after close = %v, want ErrSessionClosed", err)
	}
}

func TestRunFailureSkipsInvocation(t *testing.T) {
	var out bytes.Buffer
	err := Run(ir.NewModule("empty"), &out)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Run error = %v, want ErrCompile", err)
	}
	if out.Len() != 0 {
		t.Errorf("failed run produced output %q", out.String())
	}
}
