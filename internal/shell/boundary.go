package shell

import (
	"fmt"
	"html/template"
	"runtime/debug"
)

// PanicError is a panic recovered by the Boundary.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("render panicked: %v", e.Value)
}

// Result is the outcome of a guarded render: the HTML, or the failure that
// replaced it.
type Result struct {
	HTML template.HTML
	Err  error
}

// Failed reports whether the render failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Boundary contains failures of a render step so they never escape into the
// surrounding document.
type Boundary struct{}

// Render runs fn and captures a returned error or a panic in the Result.
func (Boundary) Render(fn func() (template.HTML, error)) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			res = Result{Err: &PanicError{Value: v, Stack: debug.Stack()}}
		}
	}()

	html, err := fn()
	if err != nil {
		return Result{Err: err}
	}
	return Result{HTML: html}
}
