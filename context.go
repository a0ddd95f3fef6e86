package quill

// OVERVIEW
//
// Context is the shared state threaded through every stage of a run:
// the module loader and the registry of every module loaded so far,
// keyed by module id. The registry is the source of truth for cross-
// module calls; a function stored with its defining module's id is
// executed by looking that module back up here. All registry access is
// mutex-protected so native functions running on other goroutines can
// resolve modules safely.

import (
	"fmt"
	"log/slog"
	"sync"
)

// Context carries the loader and the module registry through a run.
type Context struct {
	loader ModuleLoader

	mu      sync.RWMutex
	modules map[string]*Module
}

// NewContext builds a context around the given loader.
func NewContext(loader ModuleLoader) *Context {
	return &Context{
		loader:  loader,
		modules: map[string]*Module{},
	}
}

// Loader returns the context's module loader.
func (c *Context) Loader() ModuleLoader { return c.loader }

// QueryModule returns the registered module with the given id.
func (c *Context) QueryModule(id string) (*Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[id]
	return m, ok
}

// UpsertModule registers a module under its id, replacing any prior
// registration.
func (c *Context) UpsertModule(m *Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[m.ID()] = m
}

// MustModule returns the registered module with the given id and
// panics if it is missing. Stored functions always carry the id of a
// registered module, so a miss is a runtime bug, not a user error.
func (c *Context) MustModule(id string) *Module {
	m, ok := c.QueryModule(id)
	if !ok {
		panic(fmt.Sprintf("module %q not registered", id))
	}
	return m
}

// LoadModule resolves a use specifier relative to the referencing
// module and returns the loaded (possibly cached) module.
func (c *Context) LoadModule(referrer *Module, spec string) (*Module, error) {
	m, err := c.loader.Load(referrer, spec)
	if err != nil {
		return nil, err
	}
	slog.Debug("module loaded", "spec", spec, "path", m.Path())
	return m, nil
}

// Eval parses and interprets a module in one step. This is the entry
// point the CLI and the REPL both use.
func (c *Context) Eval(m *Module, vm *VM) error {
	c.UpsertModule(m)
	if err := m.Parse(c, vm); err != nil {
		return err
	}
	return m.Interpret(c, vm)
}
