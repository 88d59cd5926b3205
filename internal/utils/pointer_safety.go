package utils

// Value dereferences v, substituting the zero value for nil. Lets
// callers read fields off an optional struct pointer without a nil
// check at every site.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}
