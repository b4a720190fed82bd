package graphql

import (
	"context"
	"fmt"
	"sync"

	"backoffice.GO/core/registry"
)

// ExtensionFunc handles one custom graphql extension field. It receives the
// raw argsJson string and returns a string result (typically JSON).
type ExtensionFunc func(ctx context.Context, argsJSON string) (string, error)

var mu sync.Mutex

func getExtensions() map[string]ExtensionFunc {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryGraphQL); ok && v != nil {
		return v.(map[string]ExtensionFunc)
	}
	return make(map[string]ExtensionFunc)
}

// Register adds a graphql extension. Call from init() in custom packages.
func Register(name string, fn ExtensionFunc) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryGraphQL) {
		panic("graphql/registry: locked (register only during init)")
	}
	exts := getExtensions()
	exts[name] = fn
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryGraphQL, exts)
}

// CallExtension dispatches the extension query field to a registered handler.
func CallExtension(ctx context.Context, name, argsJSON string) (string, error) {
	fn, ok := getExtensions()[name]
	if !ok {
		return "", fmt.Errorf("unknown extension %q", name)
	}
	return fn(ctx, argsJSON)
}
