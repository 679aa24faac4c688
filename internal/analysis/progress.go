package analysis

// ProgressFunc receives completion percentages in the range 0-100.
// A nil ProgressFunc is valid and ignores all reports.
type ProgressFunc func(percent int)

func (p ProgressFunc) report(percent int) {
	if p != nil {
		p(percent)
	}
}

// span maps the full 0-100 range of a nested operation onto [lo, hi] of p.
func (p ProgressFunc) span(lo, hi int) ProgressFunc {
	if p == nil {
		return nil
	}
	return func(percent int) {
		p(lo + (hi-lo)*percent/100)
	}
}
