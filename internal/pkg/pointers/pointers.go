package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Deref returns the pointed-to value or the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
