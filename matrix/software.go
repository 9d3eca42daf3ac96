package matrix

// SoftwareEngine computes the reference results on the host CPU.
type SoftwareEngine struct{}

// Compute returns the sum, difference and product of a and b.
func (SoftwareEngine) Compute(a, b Matrix16) Results {
	return Results{
		Sum:     Add(a, b),
		Diff:    Sub(a, b),
		Product: Mul(a, b),
	}
}

// Add widens both operands to 32 bits and adds them element-wise.
func Add(a, b Matrix16) Result32 {
	var r Result32
	for i := 0; i < NumElements; i++ {
		r[i] = int32(a[i]) + int32(b[i])
	}

	return r
}

// Sub widens both operands to 32 bits and subtracts b from a element-wise.
func Sub(a, b Matrix16) Result32 {
	var r Result32
	for i := 0; i < NumElements; i++ {
		r[i] = int32(a[i]) - int32(b[i])
	}

	return r
}

// Mul returns the matrix product a*b. Every cell is accumulated in an int32,
// which cannot overflow while both operands respect SafeInputMax.
func Mul(a, b Matrix16) Result32 {
	var r Result32
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			var acc int32
			for k := 0; k < Size; k++ {
				acc += int32(a[Index(i, k)]) * int32(b[Index(k, j)])
			}
			r[Index(i, j)] = acc
		}
	}

	return r
}
