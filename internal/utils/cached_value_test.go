// Package utils
package utils

import (
	"testing"
	"time"
)

func TestCachedValueMemoizes(t *testing.T) {
	calls := 0
	cached := NewCachedValue(time.Minute, func() *int {
		calls++
		value := calls
		return &value
	})

	if got := cached.GetValue(); *got != 1 {
		t.Errorf("first read = %d; expected 1", *got)
	}
	if got := cached.GetValue(); *got != 1 {
		t.Errorf("second read = %d; expected cached 1", *got)
	}
	if calls != 1 {
		t.Errorf("getter ran %d times within the lifetime; expected 1", calls)
	}
}

func TestCachedValueZeroLifetimeAlwaysRefetches(t *testing.T) {
	calls := 0
	cached := NewCachedValue(0, func() *int {
		calls++
		value := calls
		return &value
	})

	cached.GetValue()
	cached.GetValue()
	if calls != 2 {
		t.Errorf("getter ran %d times with caching disabled; expected 2", calls)
	}
}
