// Package notify holds the in-app notification queue shown in the page
// header. The queue is bounded: only the newest few entries are visible
// and every entry expires after a fixed interval.
package notify

import (
	"strconv"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelAlert   Level = "alert"
)

// LargeExpenseThreshold is the whole-taka amount at or above which a new
// expense raises an alert instead of a plain info notice.
const LargeExpenseThreshold = 5000

const (
	DefaultVisible = 3
	DefaultTTL     = 6 * time.Second
)

type Notification struct {
	ID        string
	Level     Level
	Title     string
	Message   string
	Action    string // optional link target
	CreatedAt time.Time
}

type Center struct {
	mu      sync.Mutex
	max     int
	ttl     time.Duration
	now     func() time.Time
	seq     int
	entries []Notification
}

func NewCenter(max int, ttl time.Duration) *Center {
	if max <= 0 {
		max = DefaultVisible
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{max: max, ttl: ttl, now: time.Now}
}

// Push queues a notification. Older entries past the visible limit are
// dropped immediately; they do not come back when newer ones expire.
func (c *Center) Push(level Level, title, message string) {
	c.PushAction(level, title, message, "")
}

// PushAction queues a notification that links to a page inside the app.
func (c *Center) PushAction(level Level, title, message, action string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries = append(c.entries, Notification{
		ID:        "n" + strconv.Itoa(c.seq),
		Level:     level,
		Title:     title,
		Message:   message,
		Action:    action,
		CreatedAt: c.now(),
	})
	if len(c.entries) > c.max {
		c.entries = c.entries[len(c.entries)-c.max:]
	}
}

// Visible returns the current notifications, newest first, dropping any
// that have expired.
func (c *Center) Visible() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	kept := c.entries[:0]
	for _, n := range c.entries {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	c.entries = kept

	out := make([]Notification, len(kept))
	for i, n := range kept {
		out[len(kept)-1-i] = n
	}
	return out
}
