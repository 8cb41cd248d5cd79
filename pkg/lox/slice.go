// Package lox holds slice helpers that samber/lo lacks: error-returning
// mapping and mapping that never yields a nil slice.
package lox

// MapErr maps collection, stopping at the first error.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Map is lo.Map that returns an empty, non-nil slice for nil input, so JSON
// encodes it as [] rather than null.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
