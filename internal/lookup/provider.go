package lookup

import "context"

// SearchRequest is what the machine dispatches once the debounce window
// closes. An empty Query asks for the default, unfiltered list.
type SearchRequest struct {
	Query       string
	ExcludedIDs []string // Already-selected IDs (multi mode only)
	ParentID    string   // Scope set by a controlling lookup, if any
}

// Provider answers search requests. The machine never calls it directly:
// it emits SearchRequested and the host runs the provider, feeding the
// outcome back through SetSearchResults or SearchFailed.
type Provider interface {
	Search(ctx context.Context, req SearchRequest) ([]Result, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, req SearchRequest) ([]Result, error)

// Search implements Provider.
func (f ProviderFunc) Search(ctx context.Context, req SearchRequest) ([]Result, error) {
	return f(ctx, req)
}
