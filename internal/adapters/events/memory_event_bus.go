package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
)

// ErrBusClosed is returned when publishing or subscribing on a closed bus
var ErrBusClosed = errors.New("event bus closed")

// MemoryEventBus delivers events to subscribers in the same process.
// It backs single-instance deployments that run without Redis.
type MemoryEventBus struct {
	fanout *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates a new in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{fanout: newFanout()}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

// Publish delivers event to current subscribers of channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.fanout.deliver(channel, event)
	return nil
}

// Subscribe returns a channel that receives events until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	eventChan, _ := b.fanout.add(channel)

	go func() {
		<-ctx.Done()
		b.fanout.remove(channel, eventChan)
	}()

	return eventChan, nil
}

// Unsubscribe closes every subscriber of channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.fanout.closeChannel(channel)
	return nil
}

// Close closes every subscription
func (b *MemoryEventBus) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	for _, channel := range b.fanout.channels() {
		b.fanout.closeChannel(channel)
	}
	return nil
}
