package bus

import (
	"context"
	"fmt"
	"sync"
)

// Query is a request to read state, routed to exactly one handler. Queries
// have no side effects.
type Query interface {
	QueryName() string
}

type QueryHandler interface {
	HandleQuery(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc adapts a function to QueryHandler.
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

func (f QueryHandlerFunc) HandleQuery(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// QueryBus dispatches queries synchronously and returns the handler's result.
type QueryBus struct {
	mu       sync.RWMutex
	handlers map[string]QueryHandler
}

func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[string]QueryHandler)}
}

// Register binds a handler to a query name, replacing any previous binding.
func (b *QueryBus) Register(name string, handler QueryHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = handler
}

func (b *QueryBus) Dispatch(ctx context.Context, query Query) (interface{}, error) {
	b.mu.RLock()
	handler, ok := b.handlers[query.QueryName()]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("dispatch query %s: %w", query.QueryName(), ErrNoHandler)
	}
	return handler.HandleQuery(ctx, query)
}
