package bus

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-house/internal/domain"
)

type testCommand struct{ name string }

func (c testCommand) CommandName() string { return c.name }

type testQuery struct{ name string }

func (q testQuery) QueryName() string { return q.name }

type testEvent struct {
	name string
	at   time.Time
}

func (e testEvent) EventName() string     { return e.name }
func (e testEvent) OccurredAt() time.Time { return e.at }

func TestCommandBus_Dispatch(t *testing.T) {
	cb := NewCommandBus()

	var received Command
	cb.Register("auction.create", CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		received = cmd
		return nil
	}))

	cmd := testCommand{name: "auction.create"}
	require.NoError(t, cb.Dispatch(context.Background(), cmd))
	assert.Equal(t, cmd, received)
}

func TestCommandBus_DispatchUnregistered(t *testing.T) {
	cb := NewCommandBus()

	err := cb.Dispatch(context.Background(), testCommand{name: "auction.unknown"})
	require.ErrorIs(t, err, ErrNoHandler)
	assert.Contains(t, err.Error(), "auction.unknown")
}

func TestCommandBus_HandlerErrorPropagates(t *testing.T) {
	cb := NewCommandBus()
	handlerErr := errors.New("boom")
	cb.Register("auction.create", CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return handlerErr
	}))

	err := cb.Dispatch(context.Background(), testCommand{name: "auction.create"})
	require.ErrorIs(t, err, handlerErr)
}

func TestCommandBus_RegisterReplacesHandler(t *testing.T) {
	cb := NewCommandBus()

	var calls []string
	cb.Register("auction.create", CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		calls = append(calls, "first")
		return nil
	}))
	cb.Register("auction.create", CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		calls = append(calls, "second")
		return nil
	}))

	require.NoError(t, cb.Dispatch(context.Background(), testCommand{name: "auction.create"}))
	assert.Equal(t, []string{"second"}, calls)
}

func TestQueryBus_DispatchReturnsResult(t *testing.T) {
	qb := NewQueryBus()
	qb.Register("auction.get", QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		return "result-for-" + query.QueryName(), nil
	}))

	result, err := qb.Dispatch(context.Background(), testQuery{name: "auction.get"})
	require.NoError(t, err)
	assert.Equal(t, "result-for-auction.get", result)
}

func TestQueryBus_DispatchUnregistered(t *testing.T) {
	qb := NewQueryBus()

	result, err := qb.Dispatch(context.Background(), testQuery{name: "auction.unknown"})
	require.ErrorIs(t, err, ErrNoHandler)
	assert.Nil(t, result)
}

func TestEventBus_PublishOrder(t *testing.T) {
	eb := NewEventBus()

	var calls []string
	record := func(label string) Subscriber {
		return func(ctx context.Context, event domain.Event) error {
			calls = append(calls, fmt.Sprintf("%s:%s", label, event.EventName()))
			return nil
		}
	}

	// Subscribers run in registration order for each event, events in
	// sequence order.
	eb.Subscribe("a", record("first"))
	eb.Subscribe("a", record("second"))
	eb.Subscribe("b", record("third"))

	events := []domain.Event{
		testEvent{name: "a"},
		testEvent{name: "b"},
		testEvent{name: "a"},
	}
	require.NoError(t, eb.Publish(context.Background(), events))

	assert.Equal(t, []string{
		"first:a", "second:a",
		"third:b",
		"first:a", "second:a",
	}, calls)
}

func TestEventBus_NoSubscribers(t *testing.T) {
	eb := NewEventBus()

	err := eb.Publish(context.Background(), []domain.Event{testEvent{name: "a"}})
	require.NoError(t, err)
}

func TestEventBus_SubscriberFailureStopsDelivery(t *testing.T) {
	eb := NewEventBus()

	subErr := errors.New("subscriber failed")
	var calls int
	eb.Subscribe("a", func(ctx context.Context, event domain.Event) error {
		calls++
		return subErr
	})
	eb.Subscribe("a", func(ctx context.Context, event domain.Event) error {
		calls++
		return nil
	})

	err := eb.Publish(context.Background(), []domain.Event{testEvent{name: "a"}, testEvent{name: "a"}})
	require.ErrorIs(t, err, subErr)
	assert.Equal(t, 1, calls, "delivery stops at the first failing subscriber")
}
