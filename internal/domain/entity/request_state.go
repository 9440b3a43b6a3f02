package entity

// RequestState is the lifecycle of one async fetch. It is a closed set:
// Initial, Loading, Loaded and Failed are the only implementations.
type RequestState[T any] interface {
	requestState(T)
}

// Initial means no fetch has started yet.
type Initial[T any] struct{}

// Loading means a fetch is in flight.
type Loading[T any] struct{}

// Loaded carries the result of a successful fetch.
type Loaded[T any] struct {
	Value T
}

// Failed carries the error of a failed fetch.
type Failed[T any] struct {
	Err error
}

func (Initial[T]) requestState(T) {}
func (Loading[T]) requestState(T) {}
func (Loaded[T]) requestState(T)  {}
func (Failed[T]) requestState(T)  {}

// RequestStateMatcher has one branch per RequestState variant.
type RequestStateMatcher[T, R any] struct {
	Initial func() R
	Loading func() R
	Loaded  func(T) R
	Failed  func(error) R
}

// MatchRequestState dispatches s to the branch of its variant. A nil state is
// treated as Initial. Every branch must be set.
func MatchRequestState[T, R any](s RequestState[T], m RequestStateMatcher[T, R]) R {
	switch v := s.(type) {
	case Loading[T]:
		return m.Loading()
	case Loaded[T]:
		return m.Loaded(v.Value)
	case Failed[T]:
		return m.Failed(v.Err)
	default:
		return m.Initial()
	}
}

// RequestStatus names the variant of s, for logs and API payloads.
func RequestStatus[T any](s RequestState[T]) string {
	return MatchRequestState(s, RequestStateMatcher[T, string]{
		Initial: func() string { return "initial" },
		Loading: func() string { return "loading" },
		Loaded:  func(T) string { return "loaded" },
		Failed:  func(error) string { return "error" },
	})
}
