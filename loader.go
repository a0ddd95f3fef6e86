package quill

// OVERVIEW
//
// Module loading. A ModuleLoader turns a use specifier into a Module.
// Specifiers come in two shapes: filesystem paths ("./util.ql",
// "/abs/path/lib.ql") resolved relative to the importing module, and
// package identifiers ("std", "std::io::file") resolved against a
// deps directory convention:
//
//	name            -> <deps>/name/lib.ql
//	name::a::b      -> <deps>/name/a/b.ql
//
// The filesystem loader caches by canonicalized absolute path, so two
// specifiers that name the same file share one Module instance. That
// identity matters: repeated imports must see the same definitions,
// and a module's resolver pass must run at most once.

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// SourceExt is the file extension of source files.
const SourceExt = ".ql"

// ModuleLoader resolves use specifiers to modules. Loaders that cache
// expose the cache through Insert and Get; non-caching loaders make
// Insert a no-op and Get always miss.
type ModuleLoader interface {
	// Load resolves spec relative to the referrer and returns the
	// module, loading and caching it if necessary.
	Load(referrer *Module, spec string) (*Module, error)

	// Insert places a module into the loader's cache under the given key.
	Insert(key string, m *Module)

	// Get returns the cached module for the given key, if present.
	Get(key string) (*Module, bool)
}

// stripQuotes removes one pair of surrounding double quotes, which
// specifiers keep from their string token literal.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

var packageIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)

// ResolveSpec turns a specifier into a concrete file path. Package
// identifiers map onto the deps layout; everything else is a path,
// joined against the referrer's directory when relative.
func ResolveSpec(referrer *Module, spec, depsRoot string) (string, error) {
	spec = stripQuotes(spec)
	if spec == "" {
		return "", fmt.Errorf("empty module specifier")
	}

	if packageIdentRe.MatchString(spec) {
		parts := strings.Split(spec, "::")
		if len(parts) == 1 {
			return filepath.Join(depsRoot, parts[0], "lib"+SourceExt), nil
		}
		rest := filepath.Join(parts[1:]...)
		return filepath.Join(depsRoot, parts[0], rest+SourceExt), nil
	}

	spec = filepath.FromSlash(spec)
	if filepath.IsAbs(spec) {
		return spec, nil
	}
	dir := filepath.Dir(referrer.Path())
	return filepath.Join(dir, spec), nil
}

// FsLoader loads modules from the filesystem and caches them by
// canonical absolute path. Safe for concurrent use.
type FsLoader struct {
	depsRoot string

	mu    sync.Mutex
	cache map[string]*Module
}

// NewFsLoader builds a filesystem loader resolving package identifiers
// against the given deps directory.
func NewFsLoader(depsRoot string) *FsLoader {
	return &FsLoader{
		depsRoot: depsRoot,
		cache:    map[string]*Module{},
	}
}

// Load implements ModuleLoader.
func (l *FsLoader) Load(referrer *Module, spec string) (*Module, error) {
	resolved, err := ResolveSpec(referrer, spec, l.depsRoot)
	if err != nil {
		return nil, err
	}
	key, err := canonicalPath(resolved)
	if err != nil {
		return nil, fmt.Errorf("resolve module %q: %w", stripQuotes(spec), err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.cache[key]; ok {
		slog.Debug("module cache hit", "spec", spec, "path", key)
		return m, nil
	}

	source, err := LoadSource(key)
	if err != nil {
		return nil, fmt.Errorf("load module %q: %w", stripQuotes(spec), err)
	}
	m := NewModule(source)
	l.cache[key] = m
	slog.Debug("module cached", "spec", spec, "path", key)
	return m, nil
}

// Insert implements ModuleLoader.
func (l *FsLoader) Insert(key string, m *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[key] = m
}

// Get implements ModuleLoader.
func (l *FsLoader) Get(key string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.cache[key]
	return m, ok
}

// canonicalPath makes the path absolute and resolves symlinks where
// the target exists, so every spelling of a file shares one cache key.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}
	return abs, nil
}
