package store

// Result is the uniform outcome of every store operation. Exactly one of
// Data or Err is meaningful: Success reports which. Callers branch on
// Success instead of inspecting errors directly, so UI layers and the CLI
// can render outcomes without knowing the failure taxonomy.
type Result[T any] struct {
	Success bool
	Data    T
	Err     error
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Error returns the failure message, or "" on success.
func (r Result[T]) Error() string {
	if r.Success || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
