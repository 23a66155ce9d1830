package resolver

import "fmt"

// NoMatchError reports that no detection matched a label well enough.
type NoMatchError struct {
	Target    string
	BestText  string
	BestScore float64
	Threshold float64
	Reason    string
}

func (e *NoMatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no match for %q: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("no match for %q: best %q scored %.2f, need %.2f", e.Target, e.BestText, e.BestScore, e.Threshold)
}

// OutOfRangeError reports a detection index outside the detection list.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("detection index %d out of range [0,%d)", e.Index, e.Len)
}
