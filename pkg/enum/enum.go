package enum

import (
	"reflect"
	"sync"
)

var (
	mu          sync.RWMutex
	enumManager = map[reflect.Type]any{}
)

// New registers value under name and returns value, so that it can be used
// to declare constants-like variables.
func New[T comparable](value T, name string) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = map[T]string{}
	}

	enumManager[t].(map[T]string)[value] = name
	return value
}

// ToString returns the registered name of value, or an empty string.
func ToString[T comparable](value T) string {
	mu.RLock()
	defer mu.RUnlock()

	names, ok := enumManager[reflect.TypeOf(value)]
	if !ok {
		return ""
	}

	return names.(map[T]string)[value]
}
