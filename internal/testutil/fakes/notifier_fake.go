package fakes

import (
	"context"
	"errors"
	"sync"
)

// Notification is one captured send.
type Notification struct {
	Title   string
	Message string
}

// FakeNotifier captures notifications and can simulate channel failures.
type FakeNotifier struct {
	mu   sync.Mutex
	Sent []Notification
	Fail bool
}

func (n *FakeNotifier) Send(_ context.Context, title, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return false
	}
	n.Sent = append(n.Sent, Notification{Title: title, Message: message})
	return true
}

// Notifications returns a copy of everything sent so far.
func (n *FakeNotifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.Sent))
	copy(out, n.Sent)
	return out
}

// FakeChannel is a notify.Channel that records messages or fails on demand.
type FakeChannel struct {
	mu       sync.Mutex
	Messages []Notification
	Fail     bool
	// Block waits for ctx to end before returning, simulating a hung transport.
	Block bool
}

func (c *FakeChannel) Name() string { return "fake" }

func (c *FakeChannel) Send(ctx context.Context, title, message string) error {
	if c.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return errors.New("channel down")
	}
	c.Messages = append(c.Messages, Notification{Title: title, Message: message})
	return nil
}

// Count returns how many messages were delivered.
func (c *FakeChannel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Messages)
}
