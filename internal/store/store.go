// Package store holds the client's reactive state: the signed-in user and
// the interview list. Observers are told after every mutation.
package store

import (
	"errors"
	"sync"

	"github.com/blockedby/interview-list/internal/routes"
)

// ErrSignedOut is returned by store calls that must produce a value or a
// write but have no signed-in user.
var ErrSignedOut = errors.New("not signed in")

// Navigator moves the UI to another route.
type Navigator interface {
	Navigate(path string) routes.Location
}

// Notifier shows failures to the user.
type Notifier interface {
	Error(err error)
}

// observers is a set of change callbacks.
type observers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

func (o *observers) subscribe(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func())
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.fns, id)
	}
}

func (o *observers) notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
