package console

// LoadState tracks a cross-entity reference's lifecycle so display code
// can pattern-match instead of chaining optional-or-default fallbacks.
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// Ref is a value that may not have arrived yet: Unloaded | Loading |
// Loaded(T). The zero value is Unloaded.
type Ref[T any] struct {
	state LoadState
	value T
}

func LoadingRef[T any]() Ref[T] {
	return Ref[T]{state: Loading}
}

func LoadedRef[T any](value T) Ref[T] {
	return Ref[T]{state: Loaded, value: value}
}

func (r Ref[T]) State() LoadState { return r.state }

// Get returns the value and whether it is loaded.
func (r Ref[T]) Get() (T, bool) {
	return r.value, r.state == Loaded
}

// OrElse returns the loaded value or the placeholder.
func (r Ref[T]) OrElse(placeholder T) T {
	if r.state == Loaded {
		return r.value
	}
	return placeholder
}
