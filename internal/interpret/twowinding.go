package interpret

import (
	"fmt"

	"xfmr-converter/internal/tapchanger"
)

// Interpret2 applies the two-winding alternatives of cfg to raw.
// Combinations needed by the END1, END2 and X placements go through c;
// a nil c combines without reporting.
func Interpret2(raw RawT2x, cfg Xfmr2Config, c *tapchanger.Combiner) (T2x, error) {
	if c == nil {
		c = tapchanger.NewCombiner(nil)
	}

	tcs, err := ratioPhase2(raw, cfg, c)
	if err != nil {
		return T2x{}, fmt.Errorf("transformer %s: %w", raw.ID, err)
	}

	g1, b1, g2, b2 := shunt2(raw, cfg.Shunt)
	clock1, clock2 := phaseAngleClock2(raw, cfg)

	return T2x{
		ID: raw.ID,
		R:  raw.R,
		X:  raw.X,
		End1: End{
			G:               g1,
			B:               b1,
			RatioTapChanger: tcs.ratio1,
			PhaseTapChanger: tcs.phase1,
			RatedU:          raw.End1.RatedU,
			Terminal:        raw.End1.Terminal,
			PhaseAngleClock: clock1,
		},
		End2: End{
			G:               g2,
			B:               b2,
			RatioTapChanger: tcs.ratio2,
			PhaseTapChanger: tcs.phase2,
			RatedU:          raw.End2.RatedU,
			Terminal:        raw.End2.Terminal,
			PhaseAngleClock: clock2,
		},
		StructuralRatioAtEnd2: structuralRatioAtEnd2(raw, cfg.StructuralRatio),
	}, nil
}

type tapChangers struct {
	ratio1, phase1 *tapchanger.TapChanger
	ratio2, phase2 *tapchanger.TapChanger
}

func ratioPhase2(raw RawT2x, cfg Xfmr2Config, c *tapchanger.Combiner) (tapChangers, error) {
	var (
		out tapChangers
		err error
	)

	placement := cfg.RatioPhase
	if placement == Xfmr2RatioPhaseX {
		placement = Xfmr2RatioPhaseEnd2
		if raw.End1.XIsZero {
			placement = Xfmr2RatioPhaseEnd1
		}
	}

	switch placement {
	case Xfmr2RatioPhaseEnd1:
		if out.ratio1, err = c.Combine(raw.End1.RatioTapChanger, raw.End2.RatioTapChanger); err != nil {
			return out, err
		}

		if out.phase1, err = c.Combine(raw.End1.PhaseTapChanger, raw.End2.PhaseTapChanger); err != nil {
			return out, err
		}
	case Xfmr2RatioPhaseEnd2:
		if out.ratio2, err = c.Combine(raw.End2.RatioTapChanger, raw.End1.RatioTapChanger); err != nil {
			return out, err
		}

		if out.phase2, err = c.Combine(raw.End2.PhaseTapChanger, raw.End1.PhaseTapChanger); err != nil {
			return out, err
		}
	default:
		out.ratio1, out.phase1 = raw.End1.RatioTapChanger, raw.End1.PhaseTapChanger
		out.ratio2, out.phase2 = raw.End2.RatioTapChanger, raw.End2.PhaseTapChanger
	}

	if cfg.Phase1Negate {
		out.phase1 = tapchanger.NegateAngles(out.phase1)
	}

	if cfg.Phase2Negate {
		out.phase2 = tapchanger.NegateAngles(out.phase2)
	}

	return out, nil
}

func shunt2(raw RawT2x, alt Xfmr2Shunt) (g1, b1, g2, b2 float64) {
	g := raw.End1.G + raw.End2.G
	b := raw.End1.B + raw.End2.B

	switch alt {
	case Xfmr2ShuntEnd1:
		return g, b, 0, 0
	case Xfmr2ShuntEnd2:
		return 0, 0, g, b
	case Xfmr2ShuntSplit:
		return g * 0.5, b * 0.5, g * 0.5, b * 0.5
	default:
		return raw.End1.G, raw.End1.B, raw.End2.G, raw.End2.B
	}
}

// phaseAngleClock2 keeps nonzero clocks only for END1_END2. A negate flag
// moves that end's clock to the opposite end.
func phaseAngleClock2(raw RawT2x, cfg Xfmr2Config) (clock1, clock2 int) {
	if cfg.PhaseAngleClock != Xfmr2PhaseAngleClockEnd1End2 {
		return 0, 0
	}

	if c := raw.End1.PhaseAngleClock; c != 0 {
		if cfg.Clock1Negate {
			clock2 = c
		} else {
			clock1 = c
		}
	}

	if c := raw.End2.PhaseAngleClock; c != 0 {
		if cfg.Clock2Negate {
			clock1 = c
		} else {
			clock2 = c
		}
	}

	return clock1, clock2
}

// structuralRatioAtEnd2 is always false for equal rated voltages.
func structuralRatioAtEnd2(raw RawT2x, alt Xfmr2StructuralRatio) bool {
	if raw.End1.RatedU == raw.End2.RatedU {
		return false
	}

	switch alt {
	case Xfmr2StructuralRatioEnd1:
		return false
	case Xfmr2StructuralRatioEnd2:
		return true
	case Xfmr2StructuralRatioRTC:
		return !raw.End1.RtcDefined
	default:
		return !raw.End1.XIsZero
	}
}
