package lookup

import "errors"

// Status names the QueryResult variant
type Status int

const (
	StatusFound Status = iota
	StatusNoMatches
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNoMatches:
		return "no_matches"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// errUnknownFailure stands in when Failed is given a nil error
var errUnknownFailure = errors.New("lookup failed for an unknown reason")

// Result is the outcome of a lookup. Exactly one variant holds:
// Found has at least one item, NoMatches has none and no error,
// Failed carries an error and no items.
type Result[T any] struct {
	Status Status
	Items  []T
	Err    error
}

// Found builds a success result. An empty slice yields NoMatches.
func Found[T any](items []T) Result[T] {
	if len(items) == 0 {
		return NoMatches[T]()
	}
	return Result[T]{Status: StatusFound, Items: items}
}

// NoMatches builds the empty, non-error result
func NoMatches[T any]() Result[T] {
	return Result[T]{Status: StatusNoMatches, Items: []T{}}
}

// Failed builds an error result
func Failed[T any](err error) Result[T] {
	if err == nil {
		err = errUnknownFailure
	}
	return Result[T]{Status: StatusFailed, Err: err}
}

// Single returns the first item of a Found result
func (r Result[T]) Single() (T, bool) {
	var zero T
	if r.Status != StatusFound || len(r.Items) == 0 {
		return zero, false
	}
	return r.Items[0], true
}

func (r Result[T]) IsFound() bool     { return r.Status == StatusFound }
func (r Result[T]) IsNoMatches() bool { return r.Status == StatusNoMatches }
func (r Result[T]) IsFailed() bool    { return r.Status == StatusFailed }
