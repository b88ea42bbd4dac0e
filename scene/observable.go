package scene

import (
	"log"
)

// Observer is the handle returned by Observable.Add, used to unsubscribe.
type Observer[T any] struct {
	callback func(T)
	removed  bool
}

// Observable is an ordered list of callbacks notified synchronously, in registration order.
// The zero value is ready to use.
type Observable[T any] struct {
	observers []*Observer[T]
}

// Add registers callback and returns its handle.
func (o *Observable[T]) Add(callback func(T)) *Observer[T] {
	obs := &Observer[T]{callback: callback}
	o.observers = append(o.observers, obs)
	return obs
}

// Remove unregisters the observer. It is safe to call from inside a notification.
func (o *Observable[T]) Remove(obs *Observer[T]) bool {
	if obs == nil {
		return false
	}
	for i, cur := range o.observers {
		if cur == obs {
			obs.removed = true
			o.observers = append(o.observers[:i:i], o.observers[i+1:]...)
			return true
		}
	}
	return false
}

// HasObservers reports whether anything is listening.
func (o *Observable[T]) HasObservers() bool {
	return len(o.observers) > 0
}

// Clear removes every observer.
func (o *Observable[T]) Clear() {
	for _, obs := range o.observers {
		obs.removed = true
	}
	o.observers = nil
}

// Notify calls every observer with v. A panicking observer is logged and skipped so that the others still run.
func (o *Observable[T]) Notify(v T) {
	snapshot := o.observers
	for _, obs := range snapshot {
		if obs.removed {
			continue
		}
		notifyOne(obs.callback, v)
	}
}

func notifyOne[T any](callback func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("[Scene] WARNING: observer panicked:", r)
		}
	}()
	callback(v)
}
