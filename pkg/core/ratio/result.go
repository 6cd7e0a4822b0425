// Package ratio implements the ratio catalog: pure formulas over statement
// snapshots with a uniform missing-data / divide-by-zero policy. "Undefined"
// is a first-class outcome (a nil value), never an error.
package ratio

// Result is the canonical outcome of a ratio computation. A nil Value means
// the ratio is undefined for the inputs (missing field, unknown ticker, or a
// zero denominator); callers branch on Defined rather than catching errors.
type Result struct {
	Value          *float64 `json:"value"`
	Interpretation string   `json:"interpretation,omitempty"`
}

// Defined reports whether a value was produced.
func (r Result) Defined() bool {
	return r.Value != nil
}

func undefined() Result {
	return Result{}
}

func defined(v float64, interpretation string) Result {
	return Result{Value: &v, Interpretation: interpretation}
}

// pick selects the interpretation by a simple threshold on the value.
func pick(v, threshold float64, above, below string) string {
	if v > threshold {
		return above
	}
	return below
}
