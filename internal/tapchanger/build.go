package tapchanger

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/common"
	"xfmr-converter/internal/diagnostic"
)

// Builder turns raw tap changer records into TapChangers.
// Bad values are repaired and reported, never returned as errors.
type Builder struct {
	reporter diagnostic.Reporter
	resolver RegulatingResolver
}

// NewBuilder creates a Builder. A nil reporter discards reports and a nil
// resolver means EnabledResolver.
func NewBuilder(r diagnostic.Reporter, resolver RegulatingResolver) *Builder {
	if r == nil {
		r = diagnostic.Discard
	}

	if resolver == nil {
		resolver = EnabledResolver
	}

	return &Builder{reporter: r, resolver: resolver}
}

// Ratio builds a ratio tap changer. A nil record gives a nil tap changer.
func (b *Builder) Ratio(rec *cgmes.TapChangerRecord) *TapChanger {
	return b.build(KindRatio, rec, 0)
}

// Phase builds a phase tap changer. xtx is the transformer reactance the
// step reactance curve is expressed against.
func (b *Builder) Phase(rec *cgmes.TapChangerRecord, xtx float64) *TapChanger {
	return b.build(KindPhase, rec, xtx)
}

func (b *Builder) build(kind Kind, rec *cgmes.TapChangerRecord, xtx float64) *TapChanger {
	if rec == nil {
		return nil
	}

	reg := b.resolver.Resolve(rec.ID, rec.RegulatingControlID, rec.ControlEnabled, rec.ControlMode)
	tc := &TapChanger{
		ID:                  rec.ID,
		Kind:                kind,
		LowPosition:         rec.LowStep,
		LtcFlag:             rec.LtcFlag,
		Regulating:          reg.Regulating,
		RegulatingControlID: reg.RegulatingControlID,
		ControlMode:         rec.ControlMode,
		ControlEnabled:      rec.ControlEnabled,
	}

	if rec.HighStep < rec.LowStep {
		diagnostic.Invalid(b.reporter, rec.ID, "highStep",
			fmt.Sprintf("step range [%d, %d] is empty, using a single neutral step", rec.LowStep, rec.HighStep))

		tc.Position = rec.LowStep
		tc.Steps = []Step{NeutralStep()}

		return tc
	}

	tc.Position = b.position(rec)
	tc.Steps = b.steps(kind, rec, xtx)

	if len(tc.Steps) == 1 {
		tc.LowPosition = tc.Position
	}

	return tc
}

// position returns the solved step, else the normal step, else the neutral
// step. A continuous value is rounded and an out of range one replaced.
func (b *Builder) position(rec *cgmes.TapChangerRecord) int {
	pos := float64(rec.NeutralStep)

	switch {
	case rec.Step.IsSet() && !math.IsNaN(rec.Step.Float()):
		pos = rec.Step.Float()
	case rec.NormalStep != nil:
		pos = float64(*rec.NormalStep)
	}

	p := int(math.Round(pos))
	if common.IsInRange(rec.LowStep, p, rec.HighStep) {
		return p
	}

	fallback := rec.NeutralStep
	if !common.IsInRange(rec.LowStep, fallback, rec.HighStep) {
		fallback = rec.LowStep
	}

	diagnostic.Fixed(b.reporter, rec.ID, "step",
		fmt.Sprintf("position %d outside [%d, %d], using step %d", p, rec.LowStep, rec.HighStep, fallback))

	return fallback
}

// steps builds the step list of either kind. Tables are preferred. A ratio
// tap changer with an incomplete or missing table falls back to the
// increment formula, a tabular phase tap changer to a single neutral step.
func (b *Builder) steps(kind Kind, rec *cgmes.TapChangerRecord, xtx float64) []Step {
	if kind == KindRatio {
		if rec.Table != nil {
			if steps, ok := b.tableSteps(kind, rec, "steps synthesized from increments"); ok {
				return steps
			}
		}

		return linearRatioSteps(rec, b.increment(rec, rec.StepVoltageIncrement, "stepVoltageIncrement"))
	}

	switch pt := phaseTypeOf(rec.Type); pt {
	case phaseTabular:
		if rec.Table == nil {
			diagnostic.Missing(b.reporter, rec.ID, "table", "tabular phase tap changer without table, using a single neutral step")
		} else if steps, ok := b.tableSteps(kind, rec, "using a single neutral step"); ok {
			return steps
		}

		return []Step{NeutralStep()}
	case phaseSymmetrical, phaseAsymmetrical:
		if rec.Table != nil {
			diagnostic.Ignored(b.reporter, rec.ID, "table",
				fmt.Sprintf("table %s not used by a %s phase tap changer", rec.Table.ID, pt))
		}

		return b.synthesizedPhaseSteps(pt, rec, xtx)
	default:
		diagnostic.Invalid(b.reporter, rec.ID, "type",
			fmt.Sprintf("unexpected phase tap changer type %q, using a single neutral step", rec.Type),
			phaseTypeSuggestions(rec.Type)...)

		return []Step{NeutralStep()}
	}
}

// tableSteps reads one step per position in [lowStep, highStep]. Rows
// outside the range or repeating a step are ignored. A gap makes the whole
// table unusable and is reported along with the fallback used.
func (b *Builder) tableSteps(kind Kind, rec *cgmes.TapChangerRecord, fallback string) ([]Step, bool) {
	table := rec.Table
	points := slices.Clone(table.Points)
	slices.SortStableFunc(points, func(p, q cgmes.TablePoint) int {
		return cmp.Compare(p.Step, q.Step)
	})

	steps := make([]Step, 0, rec.HighStep-rec.LowStep+1)
	next := rec.LowStep

	for _, p := range points {
		if p.Step < rec.LowStep || p.Step > rec.HighStep {
			diagnostic.Ignored(b.reporter, table.ID, "step",
				fmt.Sprintf("point for step %d outside [%d, %d]", p.Step, rec.LowStep, rec.HighStep))

			continue
		}

		if p.Step < next {
			diagnostic.Ignored(b.reporter, table.ID, "step", fmt.Sprintf("duplicate point for step %d", p.Step))

			continue
		}

		if p.Step > next {
			break
		}

		steps = append(steps, b.tablePoint(kind, table.ID, p))
		next++
	}

	if next <= rec.HighStep {
		diagnostic.Missing(b.reporter, rec.ID, "table",
			fmt.Sprintf("table %s has no point for step %d, %s", table.ID, next, fallback))

		return nil, false
	}

	return steps, true
}

func (b *Builder) tablePoint(kind Kind, tableID string, p cgmes.TablePoint) Step {
	prefix := "RatioTapChangerTablePoint"
	if kind == KindPhase {
		prefix = "PhaseTapChangerTablePoint"
	}

	fix := func(n cgmes.Number, attr string, def float64) float64 {
		v := n.Or(def)
		if !math.IsNaN(v) {
			return v
		}

		diagnostic.Fixed(b.reporter, tableID, attr,
			fmt.Sprintf("%s %s for step %d in table %s: invalid value %s", prefix, attr, p.Step, tableID, n.Raw()))

		return def
	}

	s := Step{
		Ratio: fix(p.Ratio, "ratio", 1),
		R:     fix(p.R, "r", 0),
		X:     fix(p.X, "x", 0),
		G1:    fix(p.G, "g", 0),
		B1:    fix(p.B, "b", 0),
	}

	if kind == KindPhase {
		s.Angle = fix(p.Angle, "angle", 0)
	}

	return s
}

// increment returns an optional increment, 0 when absent or invalid.
func (b *Builder) increment(rec *cgmes.TapChangerRecord, n cgmes.Number, attr string) float64 {
	v := n.Or(0)
	if math.IsNaN(v) {
		diagnostic.Fixed(b.reporter, rec.ID, attr, "invalid value "+n.Raw()+", using 0")

		return 0
	}

	return v
}

// linearRatioSteps applies ratio(step) = 1 + (step - neutral)·increment/100.
func linearRatioSteps(rec *cgmes.TapChangerRecord, increment float64) []Step {
	steps := make([]Step, 0, rec.HighStep-rec.LowStep+1)
	for step := rec.LowStep; step <= rec.HighStep; step++ {
		s := NeutralStep()
		s.Ratio = 1 + float64(step-rec.NeutralStep)*increment/100
		steps = append(steps, s)
	}

	return steps
}
