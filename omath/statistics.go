package omath

import "math"

// Number is any numeric sample type.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Sum ...
func Sum[T Number](nums []T) (result float64) {
	for _, v := range nums {
		result += float64(v)
	}
	return result
}

// Mean ...
func Mean[T Number](nums []T) float64 {
	if len(nums) == 0 {
		return 0
	}
	return Sum(nums) / float64(len(nums))
}

// Variance ...
func Variance[T Number](nums []T) (variance float64) {
	if len(nums) == 0 {
		return 0
	}
	mean := Mean(nums)
	for _, n := range nums {
		d := float64(n) - mean
		variance += d * d
	}
	return variance / float64(len(nums))
}

// StandardDeviation ...
func StandardDeviation[T Number](nums []T) float64 {
	return math.Sqrt(Variance(nums))
}
