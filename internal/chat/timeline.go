package chat

import (
	"sync"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// Timeline is the ordered message list of a conversation, oldest first.
// Messages with an id are kept at most once.
type Timeline struct {
	mu       sync.Mutex
	messages []domain.Message
	ids      map[string]struct{}
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{ids: make(map[string]struct{})}
}

// Reset replaces the timeline with the first page of history.
func (t *Timeline) Reset(page []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = t.messages[:0]
	t.ids = make(map[string]struct{}, len(page))
	for _, m := range page {
		t.appendLocked(m)
	}
}

// Prepend puts an older page in front, keeping both pages in order.
// It returns how many messages were added.
func (t *Timeline) Prepend(page []domain.Message) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	older := make([]domain.Message, 0, len(page))
	for _, m := range page {
		if t.seenLocked(m) {
			continue
		}
		if m.ID != "" {
			t.ids[m.ID] = struct{}{}
		}
		older = append(older, m)
	}
	if len(older) == 0 {
		return 0
	}
	t.messages = append(older, t.messages...)
	return len(older)
}

// Append adds a live message at the end unless it is already present.
func (t *Timeline) Append(m domain.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(m)
}

func (t *Timeline) appendLocked(m domain.Message) bool {
	if t.seenLocked(m) {
		return false
	}
	if m.ID != "" {
		t.ids[m.ID] = struct{}{}
	}
	t.messages = append(t.messages, m)
	return true
}

func (t *Timeline) seenLocked(m domain.Message) bool {
	if m.ID == "" {
		return false
	}
	_, ok := t.ids[m.ID]
	return ok
}

// Messages returns a copy of the timeline.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.messages...)
}

// Len returns the number of messages held.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
