package mirror

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const defaultNoticeBuffer = 64

// Notice tells a subscriber that a collection changed. ID is empty for
// whole-collection changes (batch commit, clear).
type Notice struct {
	Kind domain.EntityKind `json:"kind"`
	Op   domain.ChangeOp   `json:"op"`
	ID   string            `json:"id,omitempty"`
}

// notifier fans change notices out to subscribers over buffered channels.
// Delivery is best-effort: a subscriber that falls behind loses notices
// rather than blocking the mirror's writer.
type notifier struct {
	log  zerolog.Logger
	mu   sync.Mutex
	subs map[int]chan Notice
	next int
}

func newNotifier(log zerolog.Logger) *notifier {
	return &notifier{
		log:  log.With().Str("component", "mirror_notifier").Logger(),
		subs: make(map[int]chan Notice),
	}
}

func (n *notifier) subscribe(buffer int) (<-chan Notice, func()) {
	if buffer <= 0 {
		buffer = defaultNoticeBuffer
	}
	ch := make(chan Notice, buffer)

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = ch
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

func (n *notifier) publish(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, ch := range n.subs {
		select {
		case ch <- notice:
		default:
			n.log.Debug().Int("subscriber", id).Str("kind", string(notice.Kind)).Msg("notice dropped, subscriber buffer full")
		}
	}
}
