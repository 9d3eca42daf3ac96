package bench

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/mataccel/matrix"
	"github.com/sarchlab/mataccel/timer"
	"github.com/sarchlab/mataccel/verify"
)

// Report is the outcome of one benchmark run.
type Report struct {
	A, B matrix.Matrix16

	Software matrix.Results
	Hardware matrix.Results

	SoftwareCycles timer.CycleCount
	HardwareCycles timer.CycleCount

	// The counter reached zero during the measurement.
	SoftwareWrapped bool
	HardwareWrapped bool

	Speedup uint32

	// SpeedupClamped is set when the hardware path measured zero cycles and
	// Speedup was computed with a one-cycle divisor.
	SpeedupClamped bool

	Issues []verify.Issue
}

// Consistent reports whether both paths produced identical results.
func (r *Report) Consistent() bool {
	return len(r.Issues) == 0
}

// WriteReport writes a formatted report to a writer.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "INPUT MATRICES")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, renderMatrix16("Matrix A", &r.A))
	fmt.Fprintln(w, renderMatrix16("Matrix B", &r.B))

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "SOFTWARE RESULTS")
	fmt.Fprintln(w, separator)
	writeResults(w, "SW", &r.Software)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "HARDWARE RESULTS")
	fmt.Fprintln(w, separator)
	writeResults(w, "HW", &r.Hardware)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PERFORMANCE COMPARISON")
	fmt.Fprintln(w, separator)

	perf := table.NewWriter()
	perf.AppendHeader(table.Row{"Path", "Clock Cycles", "Timer Wrapped"})
	perf.AppendRow(table.Row{"Software", r.SoftwareCycles, r.SoftwareWrapped})
	perf.AppendRow(table.Row{"Hardware", r.HardwareCycles, r.HardwareWrapped})
	fmt.Fprintln(w, perf.Render())

	speedup := fmt.Sprintf("%dx", r.Speedup)
	if r.SpeedupClamped {
		speedup += " (hardware measured 0 cycles, divisor clamped to 1)"
	}
	fmt.Fprintf(w, "Speedup: %s\n", speedup)

	if r.Consistent() {
		fmt.Fprintln(w, "✓ Software and hardware results match")
		return
	}

	fmt.Fprintf(w, "⚠ Found %d mismatches:\n", len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s\n", issue.Message())
	}
}

func writeResults(w io.Writer, prefix string, res *matrix.Results) {
	fmt.Fprintln(w, renderResult32(prefix+"_Prod = A * B", &res.Product))
	fmt.Fprintln(w, renderResult32(prefix+"_Sum = A + B", &res.Sum))
	fmt.Fprintln(w, renderResult32(prefix+"_Diff = A - B", &res.Diff))
}

func renderMatrix16(title string, m *matrix.Matrix16) string {
	t := table.NewWriter()
	t.SetTitle(title)
	for i := 0; i < matrix.Size; i++ {
		row := make(table.Row, 0, matrix.Size)
		for j := 0; j < matrix.Size; j++ {
			row = append(row, m.At(i, j))
		}
		t.AppendRow(row)
	}

	return t.Render()
}

func renderResult32(title string, m *matrix.Result32) string {
	t := table.NewWriter()
	t.SetTitle(title)
	for i := 0; i < matrix.Size; i++ {
		row := make(table.Row, 0, matrix.Size)
		for j := 0; j < matrix.Size; j++ {
			row = append(row, m.At(i, j))
		}
		t.AppendRow(row)
	}

	return t.Render()
}
