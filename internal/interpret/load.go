package interpret

import (
	"fmt"
	"math"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/tapchanger"
)

// LoadT2x reads a two-winding transformer. Phase tap changers are built
// against the total reactance.
func LoadT2x(t *cgmes.Transformer, b *tapchanger.Builder) (RawT2x, error) {
	if !t.IsTwoWindings() {
		return RawT2x{}, fmt.Errorf("transformer %s: expected 2 ends, got %d", t.ID, len(t.Ends))
	}

	e1, e2 := &t.Ends[0], &t.Ends[1]
	x := e1.X.Or(0) + e2.X.Or(0)

	return RawT2x{
		ID:   t.ID,
		R:    e1.R.Or(0) + e2.R.Or(0),
		X:    x,
		End1: loadEnd(e1, b, x),
		End2: loadEnd(e2, b, x),
	}, nil
}

// LoadT3x reads a three-winding transformer. Each phase tap changer is
// built against the reactance of its own winding.
func LoadT3x(t *cgmes.Transformer, b *tapchanger.Builder) (RawT3x, error) {
	if !t.IsThreeWindings() {
		return RawT3x{}, fmt.Errorf("transformer %s: expected 3 ends, got %d", t.ID, len(t.Ends))
	}

	raw := RawT3x{ID: t.ID}
	for i := range t.Ends {
		e := &t.Ends[i]
		raw.Windings[i] = loadEnd(e, b, e.X.Or(0))
	}

	return raw, nil
}

func loadEnd(e *cgmes.End, b *tapchanger.Builder, xtx float64) RawEnd {
	return RawEnd{
		R:               e.R.Or(0),
		X:               e.X.Or(0),
		G:               e.G.Or(0),
		B:               e.B.Or(0),
		RatedU:          e.RatedU.Or(0),
		Terminal:        e.Terminal,
		PhaseAngleClock: e.PhaseAngleClock,
		RatioTapChanger: b.Ratio(e.RatioTapChanger),
		PhaseTapChanger: b.Phase(e.PhaseTapChanger, xtx),
		XIsZero:         e.X.Or(0) == 0,
		RtcDefined:      rtcDefined(e.RatioTapChanger),
	}
}

func rtcDefined(rec *cgmes.TapChangerRecord) bool {
	if rec == nil {
		return false
	}

	svi := rec.StepVoltageIncrement.Or(0)

	return !math.IsNaN(svi) && svi != 0
}
