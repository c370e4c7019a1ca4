package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoHandler indicates a wiring mistake: nothing was registered for the
// dispatched message kind. It is a programming error, not user input.
var ErrNoHandler = errors.New("no handler registered")

// Command is an instruction to change state, routed to exactly one handler.
type Command interface {
	CommandName() string
}

type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

func (f CommandHandlerFunc) HandleCommand(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// CommandBus dispatches commands synchronously, one handler per command name.
// The bus routes no return values; a handler that produces a result exposes it
// to its direct caller instead.
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

func NewCommandBus() *CommandBus {
	return &CommandBus{handlers: make(map[string]CommandHandler)}
}

// Register binds a handler to a command name, replacing any previous binding.
func (b *CommandBus) Register(name string, handler CommandHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = handler
}

func (b *CommandBus) Dispatch(ctx context.Context, cmd Command) error {
	b.mu.RLock()
	handler, ok := b.handlers[cmd.CommandName()]
	b.mu.RUnlock()

	if !ok {
		return fmt.Errorf("dispatch command %s: %w", cmd.CommandName(), ErrNoHandler)
	}
	return handler.HandleCommand(ctx, cmd)
}
