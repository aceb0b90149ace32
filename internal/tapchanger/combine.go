package tapchanger

import (
	"fmt"

	"xfmr-converter/internal/diagnostic"
)

// Combiner merges two tap changers of the same kind into one.
// The only lossy decision it takes, collapsing a tap changer to its
// current step, is sent to the Reporter.
type Combiner struct {
	reporter diagnostic.Reporter
}

// NewCombiner creates a Combiner. A nil reporter discards reports.
func NewCombiner(r diagnostic.Reporter) *Combiner {
	if r == nil {
		r = diagnostic.Discard
	}

	return &Combiner{reporter: r}
}

// Combine returns the single tap changer equivalent to tc1 and tc2 in series.
//
// The operand with the higher category keeps its full step range and the
// other one is reduced to its current step first. On equal categories the
// second operand is reduced, so tc1 wins ties.
func (c *Combiner) Combine(tc1, tc2 *TapChanger) (*TapChanger, error) {
	switch tc1.Category() {
	case CategoryNull:
		return tc2, nil
	case CategoryFixed:
		if tc2.Category() == CategoryNull {
			return tc1, nil
		}

		return merge(tc2, tc1)
	case CategoryNonRegulating:
		return c.combineNonRegulating(tc1, tc2)
	case CategoryRegulating:
		return c.combineRegulating(tc1, tc2)
	default:
		return nil, invariantf(tc1.ID, "unexpected category %s", tc1.Category())
	}
}

func (c *Combiner) combineNonRegulating(tc1, tc2 *TapChanger) (*TapChanger, error) {
	switch tc2.Category() {
	case CategoryNull:
		return tc1, nil
	case CategoryFixed:
		return merge(tc1, tc2)
	case CategoryNonRegulating:
		fixed, err := c.fixPosition(tc2)
		if err != nil {
			return nil, err
		}

		return merge(tc1, fixed)
	default:
		fixed, err := c.fixPosition(tc1)
		if err != nil {
			return nil, err
		}

		return merge(tc2, fixed)
	}
}

func (c *Combiner) combineRegulating(tc1, tc2 *TapChanger) (*TapChanger, error) {
	switch tc2.Category() {
	case CategoryNull:
		return tc1, nil
	case CategoryFixed:
		return merge(tc1, tc2)
	default:
		fixed, err := c.fixPosition(tc2)
		if err != nil {
			return nil, err
		}

		return merge(tc1, fixed)
	}
}

// fixPosition returns a one step copy of tc holding its current step.
func (c *Combiner) fixPosition(tc *TapChanger) (*TapChanger, error) {
	step, err := tc.CurrentStep()
	if err != nil {
		return nil, err
	}

	if tc.LowPosition != tc.HighPosition() {
		c.reporter.Report(diagnostic.Diagnostic{
			Severity:  diagnostic.SeverityWarning,
			Code:      diagnostic.CodeTapChangerFixed,
			Message:   fmt.Sprintf("%s fixed tap at position %d", tc.ID, tc.Position),
			Equipment: tc.ID,
		})
	}

	out := tc.baseClone()
	out.LowPosition = tc.Position
	out.Steps = []Step{step}

	return out, nil
}

// merge clones base's metadata and records other as the hidden tap changer.
func merge(base, other *TapChanger) (*TapChanger, error) {
	out := base.baseClone()
	if err := combineSteps(out, base, other); err != nil {
		return nil, err
	}

	out.Hidden = other

	return out, nil
}

// combineSteps fills out with the product of the non fixed operand's steps
// and the fixed operand's single step.
func combineSteps(out, tc1, tc2 *TapChanger) error {
	var fixed, tc *TapChanger

	switch {
	case tc1 == nil || tc2 == nil:
		return invariantf("", "unexpected nil tap changer")
	case isFixed(tc1):
		fixed, tc = tc1, tc2
	case isFixed(tc2):
		fixed, tc = tc2, tc1
	default:
		return &InvariantError{
			TapChangerIDs: []string{tc1.ID, tc2.ID},
			Reason:        "unexpected number of steps",
		}
	}

	f, err := fixed.CurrentStep()
	if err != nil {
		return err
	}

	aFixed := f.Complex()
	out.Steps = make([]Step, len(tc.Steps))

	for i, s := range tc.Steps {
		out.Steps[i] = Step{
			R:  CombineCorrection(f.R, s.R),
			X:  CombineCorrection(f.X, s.X),
			G1: CombineCorrection(f.G1, s.G1),
			B1: CombineCorrection(f.B1, s.B1),
			G2: CombineCorrection(f.G2, s.G2),
			B2: CombineCorrection(f.B2, s.B2),
		}.withRatio(s.Complex() * aFixed)
	}

	out.LowPosition = tc.LowPosition
	out.Position = tc.Position

	return nil
}

func isFixed(tc *TapChanger) bool {
	return len(tc.Steps) == 1 && tc.LowPosition == tc.HighPosition()
}

// CombineCorrection composes two percentage deviations as multiplying
// factors. A zero operand is neutral.
func CombineCorrection(fixed, correction float64) float64 {
	switch {
	case fixed != 0 && correction != 0:
		return 100 * ((1+fixed/100)*(1+correction/100) - 1)
	case fixed != 0:
		return fixed
	default:
		return correction
	}
}
