package tapchanger

import (
	"math"
	"math/cmplx"

	"xfmr-converter/internal/common"
)

// Kind tags the two tap changer variants.
type Kind int

const (
	KindRatio Kind = iota
	KindPhase
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRatio:
		return "ratio"
	case KindPhase:
		return "phase"
	default:
		return common.UnknownStr
	}
}

// Step is the electrical deviation at one tap position.
// R, X, G1, B1, G2 and B2 are percentage deviations of the nominal values:
// R_eff = R * (1 + R/100).
type Step struct {
	Ratio float64
	Angle float64
	R     float64
	X     float64
	G1    float64
	B1    float64
	G2    float64
	B2    float64
}

// NeutralStep returns a step that changes nothing.
func NeutralStep() Step {
	return Step{Ratio: 1}
}

// Complex returns Ratio·e^{j·Angle} with Angle in degrees.
func (s Step) Complex() complex128 {
	return cmplx.Rect(s.Ratio, toRadians(s.Angle))
}

// withRatio keeps the corrections of s and takes ratio and angle from a.
func (s Step) withRatio(a complex128) Step {
	s.Ratio = cmplx.Abs(a)
	s.Angle = toDegrees(cmplx.Phase(a))

	return s
}

// TapChanger is an ordered list of steps plus its regulation metadata.
// Steps[i] is the step at position LowPosition+i.
type TapChanger struct {
	ID                  string
	Kind                Kind
	LowPosition         int
	Position            int
	LtcFlag             bool
	Regulating          bool
	RegulatingControlID string
	ControlMode         string
	ControlEnabled      bool
	Steps               []Step
	// Hidden is the tap changer absorbed into this one by the last combination.
	Hidden              *TapChanger
}

// HighPosition returns the position of the last step.
func (tc *TapChanger) HighPosition() int {
	return tc.LowPosition + len(tc.Steps) - 1
}

// InRange reports whether the current position addresses an existing step.
func (tc *TapChanger) InRange() bool {
	return common.IsInRange(tc.LowPosition, tc.Position, tc.HighPosition())
}

// StepAt returns the step at the given position.
func (tc *TapChanger) StepAt(position int) (Step, bool) {
	i := position - tc.LowPosition
	if i < 0 || i >= len(tc.Steps) {
		return Step{}, false
	}

	return tc.Steps[i], true
}

// CurrentStep returns the step a collapse keeps: the only step of a fixed
// tap changer, otherwise the step at the current position.
func (tc *TapChanger) CurrentStep() (Step, error) {
	if tc == nil {
		return Step{}, invariantf("", "unexpected nil tap changer")
	}

	if common.IsSingle(tc.Steps) {
		return tc.Steps[0], nil
	}

	step, ok := tc.StepAt(tc.Position)
	if !ok {
		return Step{}, invariantf(tc.ID, "position %d outside [%d, %d]", tc.Position, tc.LowPosition, tc.HighPosition())
	}

	return step, nil
}

// baseClone copies everything but the steps.
func (tc *TapChanger) baseClone() *TapChanger {
	return &TapChanger{
		ID:                  tc.ID,
		Kind:                tc.Kind,
		LowPosition:         tc.LowPosition,
		Position:            tc.Position,
		LtcFlag:             tc.LtcFlag,
		Regulating:          tc.Regulating,
		RegulatingControlID: tc.RegulatingControlID,
		ControlMode:         tc.ControlMode,
		ControlEnabled:      tc.ControlEnabled,
		Hidden:              tc.Hidden,
	}
}

// mapSteps returns a base clone whose steps are f applied to tc's steps.
func (tc *TapChanger) mapSteps(f func(Step) Step) *TapChanger {
	out := tc.baseClone()
	out.Steps = common.Map(tc.Steps, f)

	return out
}

// NegateAngles returns a copy with every step angle negated. nil stays nil.
func NegateAngles(tc *TapChanger) *TapChanger {
	if tc == nil {
		return nil
	}

	return tc.mapSteps(func(s Step) Step {
		s.Angle = -s.Angle
		return s
	})
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
