package convert

import (
	"fmt"

	"xfmr-converter/internal/interpret"
	"xfmr-converter/internal/tapchanger"
)

// Assembler builds the target layout from an interpreted transformer:
// tap changers are moved from end2 to end1 and combined there, and the
// structural ratio is moved to end1 when needed.
type Assembler struct {
	combiner *tapchanger.Combiner
}

// NewAssembler creates an Assembler. A nil combiner combines without reporting.
func NewAssembler(c *tapchanger.Combiner) *Assembler {
	if c == nil {
		c = tapchanger.NewCombiner(nil)
	}

	return &Assembler{combiner: c}
}

// AssembleT2x converts an interpreted two-winding transformer.
func (a *Assembler) AssembleT2x(in interpret.T2x) (T2x, error) {
	ratio, phase, err := a.moveAndCombine(in.End1, in.End2)
	if err != nil {
		return T2x{}, fmt.Errorf("transformer %s: %w", in.ID, err)
	}

	rc := structuralRatio(in.StructuralRatioAtEnd2, tapchanger.StructuralRatio(in.End2.RatedU, in.End1.RatedU),
		in.R, in.X, in.End1, in.End2)

	return T2x{
		ID: in.ID,
		R:  rc.R,
		X:  rc.X,
		End1: End1{
			G:               rc.G1 + rc.G2,
			B:               rc.B1 + rc.B2,
			RatioTapChanger: ratio,
			PhaseTapChanger: phase,
			RatedU:          in.End1.RatedU,
			Terminal:        in.End1.Terminal,
			PhaseAngleClock: in.End1.PhaseAngleClock,
		},
		End2: End2{
			RatedU:          in.End2.RatedU,
			Terminal:        in.End2.Terminal,
			PhaseAngleClock: in.End2.PhaseAngleClock,
		},
	}, nil
}

// AssembleT3x converts every leg of an interpreted three-winding
// transformer. The structural ratio of a leg is ratedU0/ratedU(leg).
func (a *Assembler) AssembleT3x(in interpret.T3x) (T3x, error) {
	out := T3x{ID: in.ID, RatedU0: in.RatedU0}

	for i, leg := range in.Legs {
		ratio, phase, err := a.moveAndCombine(leg.End1, leg.End2)
		if err != nil {
			return T3x{}, fmt.Errorf("transformer %s leg %d: %w", in.ID, i+1, err)
		}

		rc := structuralRatio(leg.StructuralRatioAtEnd2, tapchanger.StructuralRatio(in.RatedU0, leg.End1.RatedU),
			leg.R, leg.X, leg.End1, leg.End2)

		out.Legs[i] = Leg{
			R: rc.R,
			X: rc.X,
			End1: End1{
				G:               rc.G1 + rc.G2,
				B:               rc.B1 + rc.B2,
				RatioTapChanger: ratio,
				PhaseTapChanger: phase,
				RatedU:          leg.End1.RatedU,
				Terminal:        leg.End1.Terminal,
				PhaseAngleClock: leg.End1.PhaseAngleClock,
			},
			StarBus: End2{
				RatedU:          leg.End2.RatedU,
				PhaseAngleClock: leg.End2.PhaseAngleClock,
			},
		}
	}

	return out, nil
}

// moveAndCombine moves end2's devices to end1 and combines them with
// end1's own, end1 first.
func (a *Assembler) moveAndCombine(end1, end2 interpret.End) (ratio, phase *tapchanger.TapChanger, err error) {
	ratio, err = a.combiner.Combine(end1.RatioTapChanger, tapchanger.Move(end2.RatioTapChanger))
	if err != nil {
		return nil, nil, fmt.Errorf("ratio tap changer: %w", err)
	}

	phase, err = a.combiner.Combine(end1.PhaseTapChanger, tapchanger.Move(end2.PhaseTapChanger))
	if err != nil {
		return nil, nil, fmt.Errorf("phase tap changer: %w", err)
	}

	return ratio, phase, nil
}

func structuralRatio(atEnd2 bool, a0 complex128, r, x float64, end1, end2 interpret.End) tapchanger.RatioConversion {
	if !atEnd2 {
		return tapchanger.IdentityRatio(r, x, end1.G, end1.B, end2.G, end2.B)
	}

	return tapchanger.MoveRatio(a0, r, x, end1.G, end1.B, end2.G, end2.B)
}
