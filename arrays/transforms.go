package arrays

func Map[InputType, OutputType any](input []InputType, f func(InputType) OutputType) []OutputType {
	result := make([]OutputType, len(input))
	for i, v := range input {
		result[i] = f(v)
	}
	return result
}

// MapErr is Map for fallible transforms. It stops at the first error.
func MapErr[InputType, OutputType any](input []InputType, f func(InputType) (OutputType, error)) ([]OutputType, error) {
	result := make([]OutputType, len(input))
	for i, v := range input {
		transformed, err := f(v)
		if err != nil {
			return nil, err
		}
		result[i] = transformed
	}
	return result, nil
}

func Filter[ArrayType any](input []ArrayType, f func(ArrayType) bool) []ArrayType {
	result := []ArrayType{}

	for _, v := range input {
		if f(v) {
			result = append(result, v)
		}
	}
	return result
}

// Find returns the first element matching f.
func Find[ArrayType any](input []ArrayType, f func(ArrayType) bool) (ArrayType, bool) {
	for _, v := range input {
		if f(v) {
			return v, true
		}
	}

	var zero ArrayType
	return zero, false
}
