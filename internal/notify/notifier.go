// Package notify holds the transient banner shown after an action. Only one
// notice is live at a time and it dismisses itself after a fixed interval.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays up.
const DefaultTTL = 10 * time.Second

// Level styles a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one banner message.
type Notice struct {
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier holds at most one notice and one pending dismissal timer.
type Notifier struct {
	ttl time.Duration

	mu      sync.Mutex
	current *Notice
	timer   *time.Timer
	gen     uint64
}

// New creates a notifier whose notices last ttl (DefaultTTL when ttl <= 0).
func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// Show replaces the current notice and restarts the dismissal timer.
func (n *Notifier) Show(message string, level Level) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen

	now := time.Now()
	notice := Notice{Message: message, Level: level, ShownAt: now, ExpiresAt: now.Add(n.ttl)}
	n.current = &notice
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
	return notice
}

// expire clears the notice only if no newer one replaced it since the timer was armed.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return
	}
	n.current = nil
	n.timer = nil
}

// Current returns the live notice, if any.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	return *n.current, true
}

// Dismiss clears the notice and cancels its timer.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	n.current = nil
	n.timer = nil
}
