package results

// OperationResult carries either a success value or a domain failure.
// Infrastructure errors travel separately as a plain error so callers can
// tell "retry this" apart from "tell the user no".
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success value.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a domain failure.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

// IsSuccess reports whether the result holds a success value.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the result holds a domain failure.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

// Map transforms the success value, leaving failures untouched.
func Map[S any, T any, F any](r OperationResult[S, F], fn func(S) T) OperationResult[T, F] {
	switch {
	case r.Failure != nil:
		return OperationResult[T, F]{Failure: r.Failure}
	case r.Success != nil:
		t := fn(*r.Success)
		return OperationResult[T, F]{Success: &t}
	default:
		return OperationResult[T, F]{}
	}
}
