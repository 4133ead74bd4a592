package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout tracks local subscriber channels per bus channel and delivers
// events to them without blocking the publisher.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.AppointmentEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{
		subscribers: make(map[string]map[chan *entities.AppointmentEvent]struct{}),
	}
}

// add registers a new subscriber and reports how many the channel now has
func (f *fanout) add(channel string) (chan *entities.AppointmentEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.AppointmentEvent]struct{})
	}
	eventChan := make(chan *entities.AppointmentEvent, subscriberBuffer)
	f.subscribers[channel][eventChan] = struct{}{}
	return eventChan, len(f.subscribers[channel])
}

// remove closes one subscriber and reports whether the channel has none left
func (f *fanout) remove(channel string, eventChan chan *entities.AppointmentEvent) (removed, empty bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, exists := f.subscribers[channel]
	if !exists {
		return false, false
	}
	if _, ok := subscribers[eventChan]; !ok {
		return false, false
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
		return true, true
	}
	return true, false
}

// closeChannel closes every subscriber of channel
func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subscriber := range f.subscribers[channel] {
		close(subscriber)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) channels() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	channels := make([]string, 0, len(f.subscribers))
	for channel := range f.subscribers {
		channels = append(channels, channel)
	}
	return channels
}

func (f *fanout) deliver(channel string, event *entities.AppointmentEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("Subscriber channel full, skipping event")
		}
	}
}
