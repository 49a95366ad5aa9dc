package envskema

// Result is the success/failure value returned by the Safe* entry points.
// A failed Result carries at least one Issue; callers consult OK or Err.
type Result[T any] struct {
	Value  T
	Issues Issues
}

// OK builds a successful Result.
func OK[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail builds a failed Result. An empty issue list is replaced by a generic
// parse_error so that a failure is never mistaken for success.
func Fail[T any](iss Issues) Result[T] {
	if len(iss) == 0 {
		iss = Issues{{Path: "/", Code: CodeParseError, Message: "unknown failure"}}
	}
	return Result[T]{Issues: iss}
}

// OK reports whether the Result is a success.
func (r Result[T]) OK() bool { return len(r.Issues) == 0 }

// Err returns the Issues as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return r.Issues
}

// Unwrap returns the value and error pair, mirroring Parse.
func (r Result[T]) Unwrap() (T, error) {
	if r.OK() {
		return r.Value, nil
	}
	var zero T
	return zero, r.Issues
}
