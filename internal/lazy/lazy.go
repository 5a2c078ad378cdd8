// Package lazy holds values that are computed at most once.
package lazy

import "sync"

// Value caches the result of the first Get call, error included. Later calls return the
// cached result without running their function.
type Value[T any] struct {
	once sync.Once
	v    T
	err  error
}

func (l *Value[T]) Get(compute func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.v, l.err = compute()
	})
	return l.v, l.err
}
