package tool

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// BuiltinOptions carries the runtime dependencies built-in tool
// factories need: timeouts from configuration, the shared console
// streams for ask_user, and an HTTP client for web fetching.
type BuiltinOptions struct {
	ShellTimeout  time.Duration
	PythonTimeout time.Duration
	PythonBin     string

	FetchTimeout   time.Duration
	FetchUserAgent string
	FetchMaxBytes  int
	HTTPClient     *http.Client

	// Stdin is shared with the REPL so ask_user reads from the same
	// buffered stream as the interactive prompt.
	Stdin  *bufio.Reader
	Stdout io.Writer
}

const (
	DefaultShellTimeout  = 60 * time.Second
	DefaultPythonTimeout = 30 * time.Second
	DefaultFetchTimeout  = 10 * time.Second
)

type BuiltinFactory func(options BuiltinOptions) (Tool, error)

var builtinCatalog = struct {
	mu        sync.RWMutex
	factories map[string]BuiltinFactory
	order     []string
}{
	factories: map[string]BuiltinFactory{},
}

// RegisterBuiltin registers a built-in tool factory under a tool name.
// Called from init() in the builtin package.
func RegisterBuiltin(name string, factory BuiltinFactory) {
	normalized := normalizeName(name)
	if normalized == "" {
		panic("tool: built-in name cannot be empty")
	}
	if factory == nil {
		panic(fmt.Sprintf("tool: built-in factory cannot be nil (%s)", normalized))
	}

	builtinCatalog.mu.Lock()
	defer builtinCatalog.mu.Unlock()

	if _, exists := builtinCatalog.factories[normalized]; exists {
		panic(fmt.Sprintf("tool: built-in already registered: %s", normalized))
	}
	builtinCatalog.factories[normalized] = factory
	builtinCatalog.order = append(builtinCatalog.order, normalized)
}

// BuiltinNames returns all registered built-in names sorted.
func BuiltinNames() []string {
	builtinCatalog.mu.RLock()
	defer builtinCatalog.mu.RUnlock()

	names := make([]string, len(builtinCatalog.order))
	copy(names, builtinCatalog.order)
	sort.Strings(names)
	return names
}

// BuildRegistry constructs every registered built-in and returns a
// populated registry. Registration order is the sorted name order so
// the schema sequence sent to the API is deterministic.
func BuildRegistry(options BuiltinOptions) (*Registry, error) {
	registry := NewRegistry()

	builtinCatalog.mu.RLock()
	defer builtinCatalog.mu.RUnlock()

	names := make([]string, len(builtinCatalog.order))
	copy(names, builtinCatalog.order)
	sort.Strings(names)

	for _, name := range names {
		factory := builtinCatalog.factories[name]
		t, err := factory(options)
		if err != nil {
			return nil, fmt.Errorf("build tool %s: %w", name, err)
		}
		registry.Register(t)
	}
	return registry, nil
}
