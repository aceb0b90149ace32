package tapchanger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/diagnostic"
)

func phaseRecord(typ string) *cgmes.TapChangerRecord {
	return &cgmes.TapChangerRecord{
		ID:          "PTC1",
		Type:        typ,
		LowStep:     1,
		HighStep:    3,
		NeutralStep: 2,
	}
}

func angles(tc *TapChanger) []float64 {
	out := make([]float64, len(tc.Steps))
	for i, s := range tc.Steps {
		out[i] = s.Angle
	}

	return out
}

func TestPhaseTypeOf(t *testing.T) {
	tests := []struct {
		in   string
		want phaseType
	}{
		{"PhaseTapChangerTabular", phaseTabular},
		{"PhaseTapChangerSymmetrical", phaseSymmetrical},
		{"PhaseTapChangerAsymmetrical", phaseAsymmetrical},
		{"http://iec.ch/TC57/CIM100#PhaseTapChangerAsymmetrical", phaseAsymmetrical},
		{"phase_tap_changer_symmetrical", phaseSymmetrical},
		{"tabular", phaseTabular},
		{"PhaseTapChangerLinear", phaseUnknown},
		{"", phaseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, phaseTypeOf(tt.in))
		})
	}
}

func TestBuilder_SymmetricalFromPhaseIncrement(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerSymmetrical")
	rec.StepPhaseShiftIncrement = cgmes.Num(10)
	rec.StepVoltageIncrement = cgmes.Num(5)

	tc := NewBuilder(nil, nil).Phase(rec, 10)

	assert.Equal(t, KindPhase, tc.Kind)
	assert.InDeltaSlice(t, []float64{-10, 0, 10}, angles(tc), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, ratios(tc), 0)
}

func TestBuilder_SymmetricalFromVoltageIncrement(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerSymmetrical")
	rec.StepVoltageIncrement = cgmes.Num(2)

	tc := NewBuilder(nil, nil).Phase(rec, 10)

	alpha := 2 * math.Asin(0.01) * 180 / math.Pi
	assert.InDeltaSlice(t, []float64{-alpha, 0, alpha}, angles(tc), 1e-12)
}

func TestBuilder_Asymmetrical(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerAsymmetrical")
	rec.StepVoltageIncrement = cgmes.Num(10)
	rec.WindingConnectionAngle = cgmes.Num(90)

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	alpha := math.Atan(0.1) * 180 / math.Pi
	want := []Step{
		{Ratio: math.Sqrt(1.01), Angle: -alpha},
		{Ratio: 1},
		{Ratio: math.Sqrt(1.01), Angle: alpha},
	}
	assertStepsClose(t, want, tc.Steps, 1e-12)
	assert.Zero(t, diags.Len())
}

func TestBuilder_AsymmetricalAtZeroDegrees(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerAsymmetrical")
	rec.StepVoltageIncrement = cgmes.Num(10)
	rec.WindingConnectionAngle = cgmes.Num(0)

	tc := NewBuilder(nil, nil).Phase(rec, 10)

	assertStepsClose(t, []Step{{Ratio: 0.9}, {Ratio: 1}, {Ratio: 1.1}}, tc.Steps, 1e-12)
}

func TestBuilder_AsymmetricalMissingAngle(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerAsymmetrical")
	rec.StepVoltageIncrement = cgmes.Num(10)

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	fixed := diags.WithCode(diagnostic.CodeFixed)
	require.Len(t, fixed, 1)
	assert.Equal(t, "windingConnectionAngle", fixed[0].Attribute)
	assert.InDelta(t, math.Atan(0.1)*180/math.Pi, tc.Steps[2].Angle, 1e-12)
}

func TestBuilder_SymmetricalReactanceCurve(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerSymmetrical")
	rec.StepPhaseShiftIncrement = cgmes.Num(10)
	rec.XStepMin = cgmes.Num(10)
	rec.XStepMax = cgmes.Num(20)

	tc := NewBuilder(nil, nil).Phase(rec, 10)

	assert.InDelta(t, 100.0, tc.Steps[0].X, 1e-9)
	assert.InDelta(t, 0.0, tc.Steps[1].X, 1e-9)
	assert.InDelta(t, 100.0, tc.Steps[2].X, 1e-9)
}

func TestBuilder_AsymmetricalReactanceCurve(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerAsymmetrical")
	rec.StepVoltageIncrement = cgmes.Num(10)
	rec.WindingConnectionAngle = cgmes.Num(90)
	rec.XMin = cgmes.Num(5)
	rec.XMax = cgmes.Num(15)

	tc := NewBuilder(nil, nil).Phase(rec, 10)

	assert.InDelta(t, 50.0, tc.Steps[0].X, 1e-9)
	assert.InDelta(t, -50.0, tc.Steps[1].X, 1e-9)
	assert.InDelta(t, 50.0, tc.Steps[2].X, 1e-9)
}

func TestBuilder_ReactanceCurveSkipped(t *testing.T) {
	tests := []struct {
		name    string
		xMin    cgmes.Number
		xMax    cgmes.Number
		xtx     float64
		ignored int
	}{
		{"zero transformer reactance", cgmes.Num(10), cgmes.Num(20), 0, 1},
		{"no bounds", cgmes.Number{}, cgmes.Number{}, 10, 0},
		{"min above max", cgmes.Num(30), cgmes.Num(20), 10, 0},
		{"zero max", cgmes.Num(0), cgmes.Num(0), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := phaseRecord("PhaseTapChangerSymmetrical")
			rec.StepPhaseShiftIncrement = cgmes.Num(10)
			rec.XStepMin = tt.xMin
			rec.XStepMax = tt.xMax

			diags := &diagnostic.Diagnostics{}
			tc := NewBuilder(diags, nil).Phase(rec, tt.xtx)

			for _, s := range tc.Steps {
				assert.Zero(t, s.X)
			}

			assert.Len(t, diags.WithCode(diagnostic.CodeIgnored), tt.ignored)
		})
	}
}

func TestBuilder_TabularPhase(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerTabular")
	rec.Table = &cgmes.Table{
		ID: "PTT1",
		Points: []cgmes.TablePoint{
			{Step: 1, Angle: cgmes.Num(-15), Ratio: cgmes.Num(1.01), X: cgmes.Num(4)},
			{Step: 2},
			{Step: 3, Angle: cgmes.Num(15), Ratio: cgmes.Num(1.01), X: cgmes.Num(4)},
		},
	}

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	assert.Equal(t, []Step{
		{Ratio: 1.01, Angle: -15, X: 4},
		{Ratio: 1},
		{Ratio: 1.01, Angle: 15, X: 4},
	}, tc.Steps)
	assert.Zero(t, diags.Len())
}

func TestBuilder_TabularPhaseWithoutTable(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerTabular")
	rec.StepPhaseShiftIncrement = cgmes.Num(5)

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	assert.Equal(t, []Step{NeutralStep()}, tc.Steps, "increments are not used for a tabular type")
	assert.Equal(t, tc.Position, tc.LowPosition)
	assert.Equal(t, CategoryFixed, tc.Category())

	missing := diags.WithCode(diagnostic.CodeMissing)
	require.Len(t, missing, 1)
	assert.Equal(t, "tabular phase tap changer without table, using a single neutral step", missing[0].Message)
}

func TestBuilder_TabularPhaseIncompleteTable(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerTabular")
	rec.StepPhaseShiftIncrement = cgmes.Num(5)
	rec.Table = &cgmes.Table{
		ID: "PTT1",
		Points: []cgmes.TablePoint{
			{Step: 1, Angle: cgmes.Num(-15)},
			{Step: 3, Angle: cgmes.Num(15)},
		},
	}

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	assert.Equal(t, []Step{NeutralStep()}, tc.Steps)

	missing := diags.WithCode(diagnostic.CodeMissing)
	require.Len(t, missing, 1)
	assert.Equal(t, "table PTT1 has no point for step 2, using a single neutral step", missing[0].Message)
}

func TestBuilder_TableIgnoredForSynthesizedTypes(t *testing.T) {
	rec := phaseRecord("PhaseTapChangerSymmetrical")
	rec.StepPhaseShiftIncrement = cgmes.Num(5)
	rec.Table = &cgmes.Table{ID: "PTT1", Points: []cgmes.TablePoint{{Step: 1, Angle: cgmes.Num(40)}}}

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	assert.InDeltaSlice(t, []float64{-5, 0, 5}, angles(tc), 1e-12)

	ignored := diags.WithCode(diagnostic.CodeIgnored)
	require.Len(t, ignored, 1)
	assert.Contains(t, ignored[0].Message, "PTT1")
}

func TestBuilder_UnknownPhaseType(t *testing.T) {
	rec := phaseRecord("Symetrical")
	rec.StepPhaseShiftIncrement = cgmes.Num(5)

	diags := &diagnostic.Diagnostics{}
	tc := NewBuilder(diags, nil).Phase(rec, 10)

	assert.Equal(t, []Step{NeutralStep()}, tc.Steps)
	assert.Equal(t, 2, tc.LowPosition)
	assert.Equal(t, 2, tc.Position)
	assert.Equal(t, CategoryFixed, tc.Category())

	invalid := diags.WithCode(diagnostic.CodeInvalid)
	require.Len(t, invalid, 1)
	assert.Equal(t, "type", invalid[0].Attribute)
	assert.Equal(t, []string{"symmetrical"}, invalid[0].Suggestions)
}
