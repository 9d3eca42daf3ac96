// Package matrix defines the fixed 4x4 operand and result containers and the
// software reference engine that the accelerator is benchmarked against.
package matrix

import (
	"errors"
	"fmt"
)

// Size is the number of rows and columns of every matrix in this package.
const Size = 4

// NumElements is the number of elements of a 4x4 matrix.
const NumElements = Size * Size

// SafeInputMax bounds the magnitude of every operand element. With elements
// in [-SafeInputMax, SafeInputMax] a 4-term dot product fits in an int32.
const SafeInputMax = 23170

// ErrOutOfRange is returned by CheckSafeRange.
var ErrOutOfRange = errors.New("operand element outside the safe input range")

// Matrix16 is a row-major 4x4 matrix of signed 16-bit operands.
type Matrix16 [NumElements]int16

// Result32 is a row-major 4x4 matrix of signed 32-bit results.
type Result32 [NumElements]int32

// Results groups the three outputs computed from one operand pair.
type Results struct {
	Sum     Result32
	Diff    Result32
	Product Result32
}

// Index returns the row-major index of element (row, col).
func Index(row, col int) int {
	return row*Size + col
}

// At returns the element at (row, col).
func (m *Matrix16) At(row, col int) int16 {
	return m[Index(row, col)]
}

// At returns the element at (row, col).
func (m *Result32) At(row, col int) int32 {
	return m[Index(row, col)]
}

// FromRows builds a Matrix16 from a 4x4 grid.
func FromRows(rows [Size][Size]int16) Matrix16 {
	var m Matrix16
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m[Index(i, j)] = rows[i][j]
		}
	}

	return m
}

// Identity returns the 4x4 identity matrix.
func Identity() Matrix16 {
	var m Matrix16
	for i := 0; i < Size; i++ {
		m[Index(i, i)] = 1
	}

	return m
}

// CheckSafeRange reports the first element of m whose magnitude exceeds
// SafeInputMax. The engines rely on this precondition and do not check it.
func CheckSafeRange(m Matrix16) error {
	for i, v := range m {
		if v > SafeInputMax || v < -SafeInputMax {
			return fmt.Errorf("%w: [%d][%d] = %d",
				ErrOutOfRange, i/Size, i%Size, v)
		}
	}

	return nil
}
