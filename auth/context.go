// Package auth keeps the session token and tells interested views when it changes.
package auth

import (
	"sync"
)

// Event is delivered to subscribers after every change.
type Event struct {
	LoggedIn bool
	Token    string
}

// Context is the authentication state of one browser. Presence of a token is the only check.
type Context struct {
	mu          sync.RWMutex
	token       string
	nextID      int
	subscribers map[int]func(Event)
}

// NewContext starts from the persisted token, which may be empty.
func NewContext(token string) *Context {
	return &Context{token: token, subscribers: make(map[int]func(Event))}
}

func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Context) IsAuthenticated() bool {
	return c.Token() != ""
}

// Subscribe registers fn and returns its cancel func.
func (c *Context) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// SetToken stores token and notifies subscribers.
func (c *Context) SetToken(token string) {
	c.update(token)
}

// Clear drops the token and notifies subscribers.
func (c *Context) Clear() {
	c.update("")
}

func (c *Context) update(token string) {
	c.mu.Lock()
	c.token = token
	subs := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	ev := Event{LoggedIn: token != "", Token: token}
	for _, fn := range subs {
		fn(ev)
	}
}
