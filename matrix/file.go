package matrix

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// OperandFile is the on-disk form of an operand pair.
//
//	a:
//	  - [1, 2, 3, 4]
//	  - ...
//	b:
//	  - ...
type OperandFile struct {
	A [][]int `yaml:"a"`
	B [][]int `yaml:"b"`
}

// LoadOperands reads an operand pair from a YAML file. Both matrices must be
// 4x4 and every element must respect SafeInputMax.
func LoadOperands(path string) (a, b Matrix16, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return a, b, fmt.Errorf("failed to read operand file: %w", err)
	}

	return ParseOperands(raw)
}

// ParseOperands decodes an operand pair from YAML.
func ParseOperands(raw []byte) (a, b Matrix16, err error) {
	var f OperandFile
	if err = yaml.Unmarshal(raw, &f); err != nil {
		return a, b, fmt.Errorf("failed to parse operand file: %w", err)
	}

	if a, err = fromGrid("a", f.A); err != nil {
		return a, b, err
	}

	if b, err = fromGrid("b", f.B); err != nil {
		return a, b, err
	}

	return a, b, nil
}

func fromGrid(name string, grid [][]int) (Matrix16, error) {
	var m Matrix16

	if len(grid) != Size {
		return m, fmt.Errorf("matrix %s: expect %d rows, got %d",
			name, Size, len(grid))
	}

	for i, row := range grid {
		if len(row) != Size {
			return m, fmt.Errorf("matrix %s: row %d: expect %d columns, got %d",
				name, i, Size, len(row))
		}

		for j, v := range row {
			if v > math.MaxInt16 || v < math.MinInt16 {
				return m, fmt.Errorf("matrix %s: %w: [%d][%d] = %d",
					name, ErrOutOfRange, i, j, v)
			}
			m[Index(i, j)] = int16(v)
		}
	}

	if err := CheckSafeRange(m); err != nil {
		return m, fmt.Errorf("matrix %s: %w", name, err)
	}

	return m, nil
}
