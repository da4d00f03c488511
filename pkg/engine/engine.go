// Package engine is the bridge between a finished IR module and the
// execution backend. A Session scopes one compile-resolve-invoke cycle:
// construct, add a module, look up the entry symbol, invoke it, close. A
// closed session cannot be reused; each execution wants a fresh one.
package engine

import (
	"errors"
	"fmt"
	"io"

	"toyc/pkg/ir"
	"toyc/pkg/vm"
)

var (
	ErrCompile        = errors.New("engine: module rejected")
	ErrSymbolNotFound = errors.New("engine: symbol not found")
	ErrNoModule       = errors.New("engine: no module added")
	ErrSessionClosed  = errors.New("engine: session closed")
)

// Option configures a Session at construction time.
type Option func(*Session)

// WithOutput directs the executed program's print output to w instead of
// standard output.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.machine.Output = w }
}

// Session owns the backend resources of one execution.
type Session struct {
	machine *vm.Machine
	prog    *vm.Program
	closed  bool
}

func NewSession(opts ...Option) (*Session, error) {
	s := &Session{machine: vm.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddModule compiles mod into the session. The module is cloned first, so
// the caller's copy stays independently usable (for printing, for example)
// after execution.
func (s *Session) AddModule(mod *ir.Module) error {
	if s.closed {
		return ErrSessionClosed
	}
	prog, err := vm.Compile(mod.Clone())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompile, err)
	}
	s.prog = prog
	return nil
}

// Symbol is a resolved, invocable entry point.
type Symbol struct {
	session *Session
	name    string
}

// Lookup resolves a function by name within the compiled module.
func (s *Session) Lookup(name string) (*Symbol, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.prog == nil {
		return nil, ErrNoModule
	}
	if _, ok := s.prog.Funcs[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, name)
	}
	return &Symbol{session: s, name: name}, nil
}

// Invoke runs the symbol with no arguments. The return value is not
// captured; execution is run-for-effect.
func (sym *Symbol) Invoke() error {
	s := sym.session
	if s.closed {
		return ErrSessionClosed
	}
	return s.machine.Run(s.prog, sym.name)
}

// Close tears down the session. It is idempotent and never re-invokes the
// entry point.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.prog = nil
	return nil
}

// Run performs one full scoped execution of mod's "main": session
// construction, module registration, symbol lookup, invocation. Teardown
// runs exactly once on every exit path, and a failure at any step skips the
// invocation.
func Run(mod *ir.Module, w io.Writer) error {
	s, err := NewSession(WithOutput(w))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddModule(mod); err != nil {
		return err
	}
	sym, err := s.Lookup("main")
	if err != nil {
		return err
	}
	return sym.Invoke()
}
