// Package utils
package utils

import (
	"sync"
	"time"
)

// CachedValue memoizes the result of an expensive getter for a fixed
// time span. A non-positive lifetime disables caching and every read
// runs the getter again.
type CachedValue[T any] struct {
	mu        sync.RWMutex
	lifetime  time.Duration
	fetchedAt time.Time
	value     *T
	getter    func() *T
}

func NewCachedValue[T any](lifetime time.Duration, getter func() *T) *CachedValue[T] {
	return &CachedValue[T]{lifetime: lifetime, getter: getter}
}

// fresh must be called with at least the read lock held.
func (cachedValue *CachedValue[T]) fresh() bool {
	return cachedValue.value != nil && time.Since(cachedValue.fetchedAt) <= cachedValue.lifetime
}

func (cachedValue *CachedValue[T]) GetValue() *T {
	cachedValue.mu.RLock()
	if cachedValue.fresh() {
		defer cachedValue.mu.RUnlock()
		return cachedValue.value
	}
	cachedValue.mu.RUnlock()

	cachedValue.mu.Lock()
	defer cachedValue.mu.Unlock()

	// Another reader may have refreshed while we waited for the lock.
	if cachedValue.fresh() {
		return cachedValue.value
	}

	cachedValue.value = cachedValue.getter()
	cachedValue.fetchedAt = time.Now()
	return cachedValue.value
}
