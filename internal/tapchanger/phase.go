package tapchanger

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/common"
	"xfmr-converter/internal/diagnostic"
	"xfmr-converter/internal/match"
)

type phaseType int

const (
	phaseUnknown phaseType = iota
	phaseTabular
	phaseAsymmetrical
	phaseSymmetrical
)

func (p phaseType) String() string {
	switch p {
	case phaseTabular:
		return "tabular"
	case phaseAsymmetrical:
		return "asymmetrical"
	case phaseSymmetrical:
		return "symmetrical"
	default:
		return common.UnknownStr
	}
}

var phaseTypes = []phaseType{phaseTabular, phaseAsymmetrical, phaseSymmetrical}

// phaseTypeOf matches the type by suffix, case and separators ignored.
// "asymmetrical" is tested first since it also ends with "symmetrical".
func phaseTypeOf(s string) phaseType {
	for _, pt := range phaseTypes {
		if match.HasSuffixIdent(s, pt.String()) {
			return pt
		}
	}

	return phaseUnknown
}

func phaseTypeSuggestions(s string) []string {
	best, ok := match.Closest(s, common.Map(phaseTypes, phaseType.String), 0.6)
	if !ok {
		return nil
	}

	return []string{best}
}

// defaultWindingConnectionAngle is used by asymmetrical tap changers that
// do not declare one; 90 degrees is a quadrature booster.
const defaultWindingConnectionAngle = 90.0

func (b *Builder) synthesizedPhaseSteps(pt phaseType, rec *cgmes.TapChangerRecord, xtx float64) []Step {
	svi := b.increment(rec, rec.StepVoltageIncrement, "stepVoltageIncrement")

	var steps []Step

	if pt == phaseAsymmetrical {
		theta := rec.WindingConnectionAngle.Or(math.NaN())
		if math.IsNaN(theta) {
			diagnostic.Fixed(b.reporter, rec.ID, "windingConnectionAngle",
				fmt.Sprintf("missing or invalid value %q, using %g", rec.WindingConnectionAngle.Raw(), defaultWindingConnectionAngle))

			theta = defaultWindingConnectionAngle
		}

		steps = asymmetricalSteps(rec, svi, theta)
		b.applyReactanceCurve(rec, steps, xtx, func(xMin, xMax, alpha, alphaMax float64) float64 {
			return asymmetricalStepX(xMin, xMax, alpha, alphaMax, theta)
		})

		return steps
	}

	spsi := b.increment(rec, rec.StepPhaseShiftIncrement, "stepPhaseShiftIncrement")
	steps = symmetricalSteps(rec, svi, spsi)
	b.applyReactanceCurve(rec, steps, xtx, symmetricalStepX)

	return steps
}

// asymmetricalSteps: the voltage increment is added at the winding
// connection angle theta.
func asymmetricalSteps(rec *cgmes.TapChangerRecord, svi, theta float64) []Step {
	cos, sin := math.Cos(toRadians(theta)), math.Sin(toRadians(theta))
	steps := make([]Step, 0, rec.HighStep-rec.LowStep+1)

	for step := rec.LowStep; step <= rec.HighStep; step++ {
		n := float64(step-rec.NeutralStep) * svi / 100
		dx := 1 + n*cos
		dy := n * sin

		s := NeutralStep()
		s.Ratio = math.Hypot(dx, dy)
		s.Angle = toDegrees(math.Atan2(dy, dx))
		steps = append(steps, s)
	}

	return steps
}

// symmetricalSteps keep ratio 1. The angle comes from the phase shift
// increment when given, otherwise from the voltage increment.
func symmetricalSteps(rec *cgmes.TapChangerRecord, svi, spsi float64) []Step {
	steps := make([]Step, 0, rec.HighStep-rec.LowStep+1)

	for step := rec.LowStep; step <= rec.HighStep; step++ {
		n := float64(step - rec.NeutralStep)

		s := NeutralStep()
		if spsi != 0 {
			s.Angle = n * spsi
		} else {
			s.Angle = toDegrees(2 * math.Asin(n*svi/100/2))
		}

		steps = append(steps, s)
	}

	return steps
}

// applyReactanceCurve sets each step's x correction from the xMin/xMax
// curve. It does nothing unless 0 <= xMin <= xMax, xMax > 0 and the curve
// is defined for the largest angle.
func (b *Builder) applyReactanceCurve(rec *cgmes.TapChangerRecord, steps []Step, xtx float64,
	curve func(xMin, xMax, alpha, alphaMax float64) float64,
) {
	xMin, xMax := rec.ReactanceRange()
	if math.IsNaN(xMin) || math.IsNaN(xMax) || xMin < 0 || xMax <= 0 || xMin > xMax {
		return
	}

	if xtx == 0 {
		diagnostic.Ignored(b.reporter, rec.ID, "xMax", "step reactance curve ignored, transformer reactance is zero")

		return
	}

	alphaMax := floats.Max(common.Map(steps, func(s Step) float64 { return s.Angle }))
	if alphaMax == 0 {
		return
	}

	for i := range steps {
		x := curve(xMin, xMax, steps[i].Angle, alphaMax)
		steps[i].X = (x - xtx) / xtx * 100
	}
}

func symmetricalStepX(xMin, xMax, alphaDeg, alphaMaxDeg float64) float64 {
	ratio := math.Sin(toRadians(alphaDeg)/2) / math.Sin(toRadians(alphaMaxDeg)/2)

	return xMin + (xMax-xMin)*ratio*ratio
}

func asymmetricalStepX(xMin, xMax, alphaDeg, alphaMaxDeg, thetaDeg float64) float64 {
	alpha, alphaMax, theta := toRadians(alphaDeg), toRadians(alphaMaxDeg), toRadians(thetaDeg)
	numer := math.Sin(theta) - math.Tan(alphaMax)*math.Cos(theta)
	denom := math.Sin(theta) - math.Tan(alpha)*math.Cos(theta)
	f := math.Tan(alpha) / math.Tan(alphaMax) * numer / denom

	return xMin + (xMax-xMin)*f*f
}
