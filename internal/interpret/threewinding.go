package interpret

// Interpret3 applies the three-winding alternatives of cfg to raw. Each
// winding becomes a leg between its network terminal (End1) and the star
// bus (End2). No combination happens here: a winding's tap changers all
// go to the same side.
func Interpret3(raw RawT3x, cfg Xfmr3Config) T3x {
	out := T3x{
		ID:      raw.ID,
		RatedU0: ratedU0(raw, cfg.StructuralRatio),
	}

	for i, w := range raw.Windings {
		out.Legs[i] = interpretLeg(w, cfg, out.RatedU0)
	}

	return out
}

func interpretLeg(w RawEnd, cfg Xfmr3Config, ratedU0 float64) Leg {
	leg := Leg{
		R: w.R,
		X: w.X,
		End1: End{
			RatedU:   w.RatedU,
			Terminal: w.Terminal,
		},
		End2: End{
			RatedU: ratedU0,
		},
		StructuralRatioAtEnd2: cfg.StructuralRatio == Xfmr3StructuralRatioStarBusSide,
	}

	if cfg.RatioPhase == Xfmr3RatioPhaseStarBusSide {
		leg.End2.RatioTapChanger, leg.End2.PhaseTapChanger = w.RatioTapChanger, w.PhaseTapChanger
	} else {
		leg.End1.RatioTapChanger, leg.End1.PhaseTapChanger = w.RatioTapChanger, w.PhaseTapChanger
	}

	switch cfg.Shunt {
	case Xfmr3ShuntStarBusSide:
		leg.End2.G, leg.End2.B = w.G, w.B
	case Xfmr3ShuntSplit:
		leg.End1.G, leg.End1.B = w.G*0.5, w.B*0.5
		leg.End2.G, leg.End2.B = w.G*0.5, w.B*0.5
	default:
		leg.End1.G, leg.End1.B = w.G, w.B
	}

	switch cfg.PhaseAngleClock {
	case Xfmr3PhaseAngleClockNetworkSide:
		leg.End1.PhaseAngleClock = w.PhaseAngleClock
	case Xfmr3PhaseAngleClockStarBusSide:
		leg.End2.PhaseAngleClock = w.PhaseAngleClock
	}

	return leg
}

// ratedU0 is the star bus voltage: 1 kV for NETWORK_SIDE, winding 1's rated
// voltage for STAR_BUS_SIDE, the selected winding's rated voltage for ENDk.
func ratedU0(raw RawT3x, alt Xfmr3StructuralRatio) float64 {
	switch alt {
	case Xfmr3StructuralRatioNetworkSide:
		return 1.0
	case Xfmr3StructuralRatioEnd2:
		return raw.Windings[1].RatedU
	case Xfmr3StructuralRatioEnd3:
		return raw.Windings[2].RatedU
	default:
		return raw.Windings[0].RatedU
	}
}
