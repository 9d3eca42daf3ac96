// Package verify cross-checks the software and accelerator results element
// by element.
package verify

import (
	"fmt"

	"github.com/sarchlab/mataccel/matrix"
)

// IssueType names the result matrix an issue was found in.
type IssueType string

// Result matrices compared by CrossCheck.
const (
	IssueSum     IssueType = "SUM"
	IssueDiff    IssueType = "DIFF"
	IssueProduct IssueType = "PRODUCT"
)

// Issue is one element on which the software and hardware results differ.
type Issue struct {
	Type     IssueType
	Row, Col int
	Software int32
	Hardware int32
}

// Message describes the issue in one line.
func (i Issue) Message() string {
	return fmt.Sprintf("%s[%d][%d]: software %d, hardware %d",
		i.Type, i.Row, i.Col, i.Software, i.Hardware)
}

// CrossCheck compares two result triples element by element and returns
// every mismatch, sum first, then difference, then product.
func CrossCheck(software, hardware matrix.Results) []Issue {
	var issues []Issue

	issues = compare(issues, IssueSum, &software.Sum, &hardware.Sum)
	issues = compare(issues, IssueDiff, &software.Diff, &hardware.Diff)
	issues = compare(issues, IssueProduct, &software.Product, &hardware.Product)

	return issues
}

func compare(
	issues []Issue,
	t IssueType,
	sw, hw *matrix.Result32,
) []Issue {
	for i := range sw {
		if sw[i] == hw[i] {
			continue
		}

		issues = append(issues, Issue{
			Type:     t,
			Row:      i / matrix.Size,
			Col:      i % matrix.Size,
			Software: sw[i],
			Hardware: hw[i],
		})
	}

	return issues
}
