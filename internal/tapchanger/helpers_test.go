package tapchanger

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

// ratioTC builds a ratio tap changer with one step per ratio, starting at low.
func ratioTC(id string, low, position int, regulating bool, ratios ...float64) *TapChanger {
	tc := &TapChanger{
		ID:          id,
		Kind:        KindRatio,
		LowPosition: low,
		Position:    position,
		Regulating:  regulating,
	}

	for _, r := range ratios {
		s := NeutralStep()
		s.Ratio = r
		tc.Steps = append(tc.Steps, s)
	}

	return tc
}

// assertStepsClose compares steps field by field with a relative tolerance.
func assertStepsClose(t *testing.T, want, got []Step, tol float64) {
	t.Helper()

	if !assert.Len(t, got, len(want)) {
		return
	}

	for i := range want {
		w, g := want[i], got[i]
		pairs := [][2]float64{
			{w.Ratio, g.Ratio}, {w.Angle, g.Angle},
			{w.R, g.R}, {w.X, g.X},
			{w.G1, g.G1}, {w.B1, g.B1},
			{w.G2, g.G2}, {w.B2, g.B2},
		}

		for _, p := range pairs {
			if !scalar.EqualWithinAbsOrRel(p[0], p[1], 1e-12, tol) {
				t.Errorf("step %d differs:\nwant %s\ngot  %s", i, spew.Sdump(w), spew.Sdump(g))

				break
			}
		}
	}
}
