package safe

import (
	"Projease/logger"
	"fmt"
	"reflect"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required fields during struct initialization.
func MustNotNil(v any, name string) {
	if reflect.ValueOf(v).IsNil() {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
}

// Go starts a goroutine that recovers from panic,
// so a misbehaving handler doesn't take the whole process down.
func Go(name string, f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] %s panic recovered: %v", name, r)
			}
		}()
		f()
	}()
}
