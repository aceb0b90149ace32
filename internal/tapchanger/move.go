package tapchanger

import "math/cmplx"

// RatioConversion holds the impedance and shunt admittances of a
// transformer after a structural ratio has been moved across it.
type RatioConversion struct {
	R  float64
	X  float64
	G1 float64
	B1 float64
	G2 float64
	B2 float64
}

// Move returns the tap changer that, placed at the other end of the ideal
// transformer, behaves like tc. Each step ratio becomes its reciprocal and
// the step corrections are re-expressed on the new side. Move is its own
// inverse. nil stays nil.
func Move(tc *TapChanger) *TapChanger {
	if tc == nil {
		return nil
	}

	return tc.mapSteps(moveStep)
}

func moveStep(s Step) Step {
	a := s.Complex()

	return Step{
		R:  percent(impedanceConversion(factor(s.R), a)),
		X:  percent(impedanceConversion(factor(s.X), a)),
		G1: percent(admittanceConversion(factor(s.G1), a)),
		B1: percent(admittanceConversion(factor(s.B1), a)),
		G2: percent(admittanceConversion(factor(s.G2), a)),
		B2: percent(admittanceConversion(factor(s.B2), a)),
	}.withRatio(1 / a)
}

// MoveRatio returns the absolute r, x, g1, b1, g2, b2 seen from the other
// side of a complex ratio a.
func MoveRatio(a complex128, r, x, g1, b1, g2, b2 float64) RatioConversion {
	return RatioConversion{
		R:  impedanceConversion(r, a),
		X:  impedanceConversion(x, a),
		G1: admittanceConversion(g1, a),
		B1: admittanceConversion(b1, a),
		G2: admittanceConversion(g2, a),
		B2: admittanceConversion(b2, a),
	}
}

// IdentityRatio returns the values unchanged, for a structural ratio that
// already sits where the target model expects it.
func IdentityRatio(r, x, g1, b1, g2, b2 float64) RatioConversion {
	return RatioConversion{R: r, X: x, G1: g1, B1: b1, G2: g2, B2: b2}
}

// StructuralRatio returns the real ratio ratedUOther/ratedUThis.
func StructuralRatio(ratedUOther, ratedUThis float64) complex128 {
	return complex(ratedUOther/ratedUThis, 0)
}

func impedanceConversion(v float64, a complex128) float64 {
	return v * abs2(a)
}

func admittanceConversion(v float64, a complex128) float64 {
	return v / abs2(a)
}

func abs2(a complex128) float64 {
	m := cmplx.Abs(a)
	return m * m
}

// factor turns a percentage deviation into a multiplying factor.
func factor(c float64) float64 {
	return 1 + c/100
}

func percent(f float64) float64 {
	return 100 * (f - 1)
}
