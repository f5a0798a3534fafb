package response

// List makes sure list endpoints render an empty JSON array instead of null.
func List[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
