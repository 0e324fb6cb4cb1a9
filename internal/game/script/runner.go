package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Runner owns one sandboxed LState per loaded move script and dispatches
// hook calls into it. Each LState is single-threaded; the mutex serialises
// concurrent callers.
type Runner struct {
	mu      sync.Mutex
	scripts map[string]*loadedScript
	logger  *zap.Logger
}

// loadedScript pairs a VM with its per-execution opcode budget. The budget
// is rearmed for every hook call, so one runaway hook cannot starve the
// calls after it.
type loadedScript struct {
	state *lua.LState
	limit int
}

// NewRunner creates an empty Runner.
//
// Precondition: logger must be non-nil.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		scripts: make(map[string]*loadedScript),
		logger:  logger,
	}
}

// Load creates a sandboxed VM for name and executes the script at path in it.
//
// Precondition: name must be non-empty; path must be a readable Lua file.
// Postcondition: hooks defined by the script are callable via CallHook(name, ...).
func (r *Runner) Load(name, path string, instLimit int) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %q: %w", path, err)
	}
	return r.LoadSource(name, string(src), instLimit)
}

// LoadDirectory loads every .lua file in dir, keyed by filename without the
// extension.
func (r *Runner) LoadDirectory(dir string, instLimit int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading script directory %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".lua")
		if err := r.Load(name, filepath.Join(dir, e.Name()), instLimit); err != nil {
			return err
		}
	}
	return nil
}

// LoadSource is Load for an in-memory script body.
func (r *Runner) LoadSource(name, src string, instLimit int) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := NewSandboxedState(instLimit)
	if err := L.DoString(src); err != nil {
		L.Close()
		return fmt.Errorf("loading script %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.scripts[name]; ok {
		old.state.Close()
	}
	r.scripts[name] = &loadedScript{state: L, limit: instLimit}
	return nil
}

// CallHook calls the named global function in the script's VM.
// Returns (LNil, nil) when the script or the function is not defined, and
// (LNil, nil) on Lua runtime errors after logging them; a broken effect
// script must never abort turn resolution.
func (r *Runner) CallHook(script, hook string, args ...lua.LValue) (lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scripts[script]
	if !ok {
		return lua.LNil, nil
	}
	L := s.state

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	// Fresh opcode budget for this call. Without the rearm the load-time
	// budget would be spent cumulatively across a battle's hook calls.
	ctx, cancel := newCountingContext(s.limit)
	L.SetContext(ctx)
	defer cancel()

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		r.logger.Warn("script: Lua runtime error",
			zap.String("script", script),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close shuts down every loaded VM. The Runner must not be used afterwards.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, s := range r.scripts {
		s.state.Close()
		delete(r.scripts, name)
	}
}
