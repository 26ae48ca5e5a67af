package hooks

import "fmt"

// PanicError reports a hook that panicked. Hook names the extension point
// or copy step it was running in.
type PanicError struct {
	Hook  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s hook panicked: %v", e.Hook, e.Value)
}

// Recover runs fn and turns a panic into a *PanicError for hook.
func Recover(hook string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Hook: hook, Value: rec}
		}
	}()
	return fn()
}
