// Package valgen provides closures that generate operand values within the
// safe input range.
package valgen

import (
	"math/rand"

	"github.com/sarchlab/mataccel/matrix"
)

// MakeConstGen returns a generator that always yields constant.
func MakeConstGen(constant int16) func() int16 {
	return func() int16 {
		return constant
	}
}

// MakeIncreasingGen returns a generator that counts up from start+1 and
// wraps from SafeInputMax to -SafeInputMax. A start outside the safe range
// is clamped to it, so the first value is -SafeInputMax for any start below.
func MakeIncreasingGen(start int16) func() int16 {
	current := start
	switch {
	case current < -matrix.SafeInputMax:
		current = -matrix.SafeInputMax - 1
	case current > matrix.SafeInputMax:
		current = matrix.SafeInputMax
	}

	return func() int16 {
		if current >= matrix.SafeInputMax {
			current = -matrix.SafeInputMax
			return current
		}
		current++
		return current
	}
}

// MakeRandomGen returns a seeded generator of values in [-limit, limit].
// limit is capped at SafeInputMax.
func MakeRandomGen(seed int64, limit int16) func() int16 {
	if limit > matrix.SafeInputMax || limit < 0 {
		limit = matrix.SafeInputMax
	}

	r := rand.New(rand.NewSource(seed))
	span := 2*int(limit) + 1

	return func() int16 {
		return int16(r.Intn(span) - int(limit))
	}
}

// Fill builds a matrix from sixteen successive generator values.
func Fill(gen func() int16) matrix.Matrix16 {
	var m matrix.Matrix16
	for i := range m {
		m[i] = gen()
	}

	return m
}
