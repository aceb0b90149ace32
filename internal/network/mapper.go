package network

import (
	"fmt"
	"math"

	"xfmr-converter/internal/convert"
	"xfmr-converter/internal/diagnostic"
	"xfmr-converter/internal/tapchanger"
)

// Mapper copies converted transformers into a Network and forwards their
// regulation to a RegulatingControlMapping.
type Mapper struct {
	network  Network
	controls RegulatingControlMapping
	reporter diagnostic.Reporter
}

// NewMapper creates a Mapper. A nil reporter drops diagnostics.
func NewMapper(n Network, rcm RegulatingControlMapping, r diagnostic.Reporter) *Mapper {
	if r == nil {
		r = diagnostic.Discard
	}

	return &Mapper{network: n, controls: rcm, reporter: r}
}

// MapT2x adds a converted two-winding transformer.
func (m *Mapper) MapT2x(t *convert.T2x) error {
	if t == nil {
		return fmt.Errorf("nil two-winding transformer")
	}

	w := m.mapWinding(t.ID, 0, t.End1)

	out := TwoWindingsTransformer{
		ID:                t.ID,
		R:                 t.R,
		X:                 t.X,
		G:                 t.End1.G,
		B:                 t.End1.B,
		RatedU1:           t.End1.RatedU,
		RatedU2:           t.End2.RatedU,
		Terminal1:         t.End1.Terminal,
		Terminal2:         t.End2.Terminal,
		PhaseAngleClock1:  t.End1.PhaseAngleClock,
		PhaseAngleClock2:  t.End2.PhaseAngleClock,
		RatioTapChanger:   w.ratio,
		PhaseTapChanger:   w.phase,
		HiddenTapChangers: w.hidden,
	}

	if err := m.network.AddTwoWindingsTransformer(out); err != nil {
		return fmt.Errorf("adding transformer %s: %w", t.ID, err)
	}

	if m.controls != nil {
		m.controls.Add(t.ID, w.ratioData, w.phaseData)
	}

	return nil
}

// MapT3x adds a converted three-winding transformer. Regulation is forwarded
// once per leg.
func (m *Mapper) MapT3x(t *convert.T3x) error {
	if t == nil {
		return fmt.Errorf("nil three-winding transformer")
	}

	out := ThreeWindingsTransformer{ID: t.ID, RatedU0: t.RatedU0}

	var windings [3]winding

	for i, leg := range t.Legs {
		w := m.mapWinding(t.ID, i+1, leg.End1)

		out.Legs[i] = Leg{
			R:                      leg.R,
			X:                      leg.X,
			G:                      leg.End1.G,
			B:                      leg.End1.B,
			RatedU:                 leg.End1.RatedU,
			Terminal:               leg.End1.Terminal,
			PhaseAngleClock:        leg.End1.PhaseAngleClock,
			StarBusPhaseAngleClock: leg.StarBus.PhaseAngleClock,
			RatioTapChanger:        w.ratio,
			PhaseTapChanger:        w.phase,
			HiddenTapChangers:      w.hidden,
		}
		windings[i] = w
	}

	if err := m.network.AddThreeWindingsTransformer(out); err != nil {
		return fmt.Errorf("adding transformer %s: %w", t.ID, err)
	}

	if m.controls != nil {
		for _, w := range windings {
			m.controls.Add(t.ID, w.ratioData, w.phaseData)
		}
	}

	return nil
}

// winding is the mapped tap changers of one transformer end.
type winding struct {
	ratio     *RatioTapChanger
	phase     *PhaseTapChanger
	ratioData RegulatingData
	phaseData RegulatingData
	hidden    []HiddenTapChanger
}

// mapWinding maps both devices of one end. Only one of them may regulate:
// when the ratio device does, the phase device is switched off.
func (m *Mapper) mapWinding(transformerID string, leg int, end convert.End1) winding {
	ratio := m.usable(end.RatioTapChanger)
	phase := m.usable(end.PhaseTapChanger)

	switchOff := ratio != nil && phase != nil && ratio.Regulating && phase.Regulating
	if switchOff {
		diagnostic.Fixed(m.reporter, phase.ID, "regulating",
			fmt.Sprintf("%s: phase tap changer %s set non-regulating, ratio tap changer %s already regulates",
				transformerID, phase.ID, ratio.ID))
	}

	var w winding

	if ratio != nil {
		w.ratio = &RatioTapChanger{
			ID:                          ratio.ID,
			LowTapPosition:              ratio.LowPosition,
			TapPosition:                 ratio.Position,
			LoadTapChangingCapabilities: ratio.LtcFlag,
			Regulating:                  ratio.Regulating,
			RegulatingControlID:         ratio.RegulatingControlID,
			Steps:                       m.steps(ratio),
		}
		w.ratioData = regulatingData(ratio, leg)
		w.hidden = appendHidden(w.hidden, ratio)
	}

	if phase != nil {
		w.phase = &PhaseTapChanger{
			ID:                  phase.ID,
			LowTapPosition:      phase.LowPosition,
			TapPosition:         phase.Position,
			Regulating:          phase.Regulating,
			RegulatingControlID: phase.RegulatingControlID,
			Steps:               m.steps(phase),
		}
		w.phaseData = regulatingData(phase, leg)
		w.hidden = appendHidden(w.hidden, phase)

		if switchOff {
			w.phase.Regulating = false
			w.phaseData.Regulating = false
		}
	}

	return w
}

// appendHidden records every tap changer absorbed into tc, nearest first.
func appendHidden(out []HiddenTapChanger, tc *tapchanger.TapChanger) []HiddenTapChanger {
	for h := tc.Hidden; h != nil; h = h.Hidden {
		out = append(out, HiddenTapChanger{
			ID:                   h.ID,
			CombinedTapChangerID: tc.ID,
			Step:                 h.Position,
		})
	}

	return out
}

// usable drops a tap changer whose position addresses no step.
func (m *Mapper) usable(tc *tapchanger.TapChanger) *tapchanger.TapChanger {
	if tc == nil {
		return nil
	}

	if len(tc.Steps) == 0 || !tc.InRange() {
		diagnostic.Ignored(m.reporter, tc.ID, "tapPosition",
			fmt.Sprintf("%s tap changer %s: position %d outside [%d, %d]",
				tc.Kind, tc.ID, tc.Position, tc.LowPosition, tc.HighPosition()))

		return nil
	}

	return tc
}

func (m *Mapper) steps(tc *tapchanger.TapChanger) []TapStep {
	out := make([]TapStep, len(tc.Steps))

	for i, s := range tc.Steps {
		x := s.X
		if math.IsNaN(x) {
			diagnostic.Fixed(m.reporter, tc.ID, "x",
				fmt.Sprintf("%s tap changer %s: x of step %d undefined, 0 used", tc.Kind, tc.ID, tc.LowPosition+i))

			x = 0
		}

		out[i] = TapStep{
			Rho: 1 / s.Ratio,
			R:   s.R,
			X:   x,
			G:   s.G1,
			B:   s.B1,
		}

		if tc.Kind == tapchanger.KindPhase {
			out[i].Alpha = -s.Angle
		}
	}

	return out
}

func regulatingData(tc *tapchanger.TapChanger, leg int) RegulatingData {
	return RegulatingData{
		TapChangerID:        tc.ID,
		Leg:                 leg,
		Regulating:          tc.Regulating,
		RegulatingControlID: tc.RegulatingControlID,
		ControlMode:         tc.ControlMode,
		ControlEnabled:      tc.ControlEnabled,
		LtcFlag:             tc.LtcFlag,
	}
}
