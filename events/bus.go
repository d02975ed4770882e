// Package events fans boot payloads out to shell subscribers
package events

import (
	"sync"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Bus delivers every published [imgnav.BootPayload] to all subscribers.
// A subscriber whose buffer is full misses that payload; it always receives
// the latest payload when it subscribes.
type Bus struct {
	subs   *xsync.Map[string, chan imgnav.BootPayload]
	buffer int

	mu   sync.RWMutex // guards last; held for writing while publishing
	last *imgnav.BootPayload
}

// NewBus returns a Bus whose subscriber channels hold buffer payloads
func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subs:   xsync.NewMap[string, chan imgnav.BootPayload](),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its id and channel. The
// channel is closed by [Bus.Unsubscribe].
func (b *Bus) Subscribe() (string, <-chan imgnav.BootPayload) {
	id := uuid.New().String()
	ch := make(chan imgnav.BootPayload, b.buffer)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last != nil {
		ch <- *b.last
	}
	b.subs.Store(id, ch)

	logger := util.GetLogger("Events")
	logger.Debug().Str("subscriber", id).Int("subscribers", b.subs.Size()).Msg("Subscribed")
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs.LoadAndDelete(id); ok {
		close(ch)
		logger := util.GetLogger("Events")
		logger.Debug().Str("subscriber", id).Msg("Unsubscribed")
	}
}

// Publish records payload as the latest and offers it to every subscriber
// without blocking
func (b *Bus) Publish(payload imgnav.BootPayload) {
	logger := util.GetLogger("Events")
	payload.Drives = append([]imgnav.VolumeID{}, payload.Drives...)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &payload
	delivered := 0
	b.subs.Range(func(id string, ch chan imgnav.BootPayload) bool {
		select {
		case ch <- payload:
			delivered++
		default:
			logger.Warn().Str("subscriber", id).Msg("Subscriber buffer full, dropping boot payload")
		}
		return true
	})
	logger.Debug().Int("drives", len(payload.Drives)).Int("delivered", delivered).Msg("Boot payload published")
}

// Last returns the most recently published payload
func (b *Bus) Last() (imgnav.BootPayload, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return imgnav.BootPayload{}, false
	}
	return *b.last, true
}

// Len returns the number of subscribers
func (b *Bus) Len() int {
	return b.subs.Size()
}
