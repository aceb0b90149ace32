package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xfmr-converter/internal/diagnostic"
	"xfmr-converter/internal/tapchanger"
)

func stepTC(id string, kind tapchanger.Kind, low, position int, regulating bool, ratios ...float64) *tapchanger.TapChanger {
	tc := &tapchanger.TapChanger{
		ID:          id,
		Kind:        kind,
		LowPosition: low,
		Position:    position,
		Regulating:  regulating,
	}

	for i, r := range ratios {
		tc.Steps = append(tc.Steps, tapchanger.Step{Ratio: r, Angle: float64(i)})
	}

	return tc
}

func rawT2x() RawT2x {
	return RawT2x{
		ID: "T1",
		R:  1,
		X:  10,
		End1: RawEnd{
			R: 1, X: 10, G: 2, B: 4, RatedU: 400, Terminal: "T1-1", PhaseAngleClock: 1,
			RatioTapChanger: stepTC("RTC1", tapchanger.KindRatio, 1, 2, false, 0.98, 1.0, 1.02),
			PhaseTapChanger: stepTC("PTC1", tapchanger.KindPhase, 1, 1, true, 1, 1, 1),
			RtcDefined:      true,
		},
		End2: RawEnd{
			G: 0.5, B: 1, RatedU: 220, Terminal: "T1-2", PhaseAngleClock: 11,
			RatioTapChanger: stepTC("RTC2", tapchanger.KindRatio, 0, 0, false, 1.05),
			XIsZero:         true,
		},
	}
}

func TestInterpret2_RatioPhasePlacement(t *testing.T) {
	raw := rawT2x()

	t.Run("END1_END2 keeps devices", func(t *testing.T) {
		got, err := Interpret2(raw, DefaultConfig().Xfmr2, nil)
		require.NoError(t, err)

		assert.Same(t, raw.End1.RatioTapChanger, got.End1.RatioTapChanger)
		assert.Same(t, raw.End1.PhaseTapChanger, got.End1.PhaseTapChanger)
		assert.Same(t, raw.End2.RatioTapChanger, got.End2.RatioTapChanger)
		assert.Nil(t, got.End2.PhaseTapChanger)
	})

	t.Run("END1 combines at end1", func(t *testing.T) {
		cfg := DefaultConfig().Xfmr2
		cfg.RatioPhase = Xfmr2RatioPhaseEnd1

		got, err := Interpret2(raw, cfg, tapchanger.NewCombiner(nil))
		require.NoError(t, err)

		require.NotNil(t, got.End1.RatioTapChanger)
		assert.Equal(t, "RTC1", got.End1.RatioTapChanger.ID)
		assert.Len(t, got.End1.RatioTapChanger.Steps, 3)
		assert.InDelta(t, 0.98*1.05, got.End1.RatioTapChanger.Steps[0].Ratio, 1e-12)
		assert.Same(t, raw.End1.PhaseTapChanger, got.End1.PhaseTapChanger)
		assert.Nil(t, got.End2.RatioTapChanger)
		assert.Nil(t, got.End2.PhaseTapChanger)
	})

	t.Run("END2 combines at end2", func(t *testing.T) {
		cfg := DefaultConfig().Xfmr2
		cfg.RatioPhase = Xfmr2RatioPhaseEnd2

		got, err := Interpret2(raw, cfg, nil)
		require.NoError(t, err)

		assert.Nil(t, got.End1.RatioTapChanger)
		assert.Nil(t, got.End1.PhaseTapChanger)
		require.NotNil(t, got.End2.RatioTapChanger)
		assert.Equal(t, "RTC1", got.End2.RatioTapChanger.ID, "the fixed device is absorbed")
		assert.Same(t, raw.End1.PhaseTapChanger, got.End2.PhaseTapChanger)
	})

	t.Run("X follows end1 reactance", func(t *testing.T) {
		cfg := DefaultConfig().Xfmr2
		cfg.RatioPhase = Xfmr2RatioPhaseX

		got, err := Interpret2(raw, cfg, nil)
		require.NoError(t, err)
		assert.Nil(t, got.End1.RatioTapChanger)
		assert.NotNil(t, got.End2.RatioTapChanger)

		zero := rawT2x()
		zero.End1.XIsZero = true

		got, err = Interpret2(zero, cfg, nil)
		require.NoError(t, err)
		assert.NotNil(t, got.End1.RatioTapChanger)
		assert.Nil(t, got.End2.RatioTapChanger)
	})
}

func TestInterpret2_PhaseNegate(t *testing.T) {
	raw := rawT2x()
	raw.End1.PhaseTapChanger.Steps[2].Angle = 5

	cfg := DefaultConfig().Xfmr2
	cfg.Phase1Negate = true
	cfg.Phase2Negate = true

	got, err := Interpret2(raw, cfg, nil)
	require.NoError(t, err)

	assert.InDelta(t, -5.0, got.End1.PhaseTapChanger.Steps[2].Angle, 0)
	assert.InDelta(t, 5.0, raw.End1.PhaseTapChanger.Steps[2].Angle, 0, "raw model untouched")
	assert.Nil(t, got.End2.PhaseTapChanger)
}

func TestInterpret2_CombinationReports(t *testing.T) {
	raw := rawT2x()
	raw.End2.RatioTapChanger = stepTC("RTC2", tapchanger.KindRatio, 1, 3, false, 0.9, 1.0, 1.1)

	cfg := DefaultConfig().Xfmr2
	cfg.RatioPhase = Xfmr2RatioPhaseEnd1

	diags := &diagnostic.Diagnostics{}
	got, err := Interpret2(raw, cfg, tapchanger.NewCombiner(diags))
	require.NoError(t, err)

	assert.Equal(t, "RTC1", got.End1.RatioTapChanger.ID)
	assert.InDelta(t, 1.1, got.End1.RatioTapChanger.Hidden.Steps[0].Ratio, 1e-12)
	assert.Len(t, diags.WithCode(diagnostic.CodeTapChangerFixed), 1)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "RTC2 fixed tap at position 3", diags.Warnings[0].Message)
}

func TestInterpret2_BrokenTapChanger(t *testing.T) {
	raw := rawT2x()
	raw.End2.RatioTapChanger = stepTC("RTC2", tapchanger.KindRatio, 1, 7, false, 0.9, 1.0, 1.1)

	cfg := DefaultConfig().Xfmr2
	cfg.RatioPhase = Xfmr2RatioPhaseEnd1

	_, err := Interpret2(raw, cfg, nil)
	require.ErrorIs(t, err, tapchanger.ErrInvariant)
	assert.Contains(t, err.Error(), "transformer T1")
}

func TestInterpret2_Shunt(t *testing.T) {
	tests := []struct {
		alt            Xfmr2Shunt
		g1, b1, g2, b2 float64
	}{
		{Xfmr2ShuntEnd1, 2.5, 5, 0, 0},
		{Xfmr2ShuntEnd2, 0, 0, 2.5, 5},
		{Xfmr2ShuntEnd1End2, 2, 4, 0.5, 1},
		{Xfmr2ShuntSplit, 1.25, 2.5, 1.25, 2.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.alt), func(t *testing.T) {
			cfg := DefaultConfig().Xfmr2
			cfg.Shunt = tt.alt

			got, err := Interpret2(rawT2x(), cfg, nil)
			require.NoError(t, err)

			assert.InDelta(t, tt.g1, got.End1.G, 1e-12)
			assert.InDelta(t, tt.b1, got.End1.B, 1e-12)
			assert.InDelta(t, tt.g2, got.End2.G, 1e-12)
			assert.InDelta(t, tt.b2, got.End2.B, 1e-12)
		})
	}
}

func TestInterpret2_StructuralRatio(t *testing.T) {
	tests := []struct {
		name   string
		alt    Xfmr2StructuralRatio
		mutate func(raw *RawT2x)
		want   bool
	}{
		{"END1", Xfmr2StructuralRatioEnd1, nil, false},
		{"END2", Xfmr2StructuralRatioEnd2, nil, true},
		{"X with reactive end1", Xfmr2StructuralRatioX, nil, true},
		{"X with zero end1", Xfmr2StructuralRatioX, func(raw *RawT2x) { raw.End1.XIsZero = true }, false},
		{"RTC defined at end1", Xfmr2StructuralRatioRTC, nil, false},
		{"RTC not defined at end1", Xfmr2StructuralRatioRTC, func(raw *RawT2x) { raw.End1.RtcDefined = false }, true},
		{"equal rated voltages", Xfmr2StructuralRatioEnd2, func(raw *RawT2x) { raw.End2.RatedU = 400 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawT2x()
			if tt.mutate != nil {
				tt.mutate(&raw)
			}

			cfg := DefaultConfig().Xfmr2
			cfg.StructuralRatio = tt.alt

			got, err := Interpret2(raw, cfg, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StructuralRatioAtEnd2)
		})
	}
}

func TestInterpret2_PhaseAngleClock(t *testing.T) {
	tests := []struct {
		name           string
		alt            Xfmr2PhaseAngleClock
		negate1        bool
		negate2        bool
		clock1, clock2 int
	}{
		{"off", Xfmr2PhaseAngleClockOff, false, false, 0, 0},
		{"kept", Xfmr2PhaseAngleClockEnd1End2, false, false, 1, 11},
		{"end1 moved", Xfmr2PhaseAngleClockEnd1End2, true, false, 0, 11},
		{"end2 moved", Xfmr2PhaseAngleClockEnd1End2, false, true, 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().Xfmr2
			cfg.PhaseAngleClock = tt.alt
			cfg.Clock1Negate = tt.negate1
			cfg.Clock2Negate = tt.negate2

			got, err := Interpret2(rawT2x(), cfg, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.clock1, got.End1.PhaseAngleClock)
			assert.Equal(t, tt.clock2, got.End2.PhaseAngleClock)
		})
	}
}

func TestInterpret2_CopiesEndData(t *testing.T) {
	got, err := Interpret2(rawT2x(), DefaultConfig().Xfmr2, nil)
	require.NoError(t, err)

	assert.Equal(t, "T1", got.ID)
	assert.InDelta(t, 1.0, got.R, 0)
	assert.InDelta(t, 10.0, got.X, 0)
	assert.InDelta(t, 400.0, got.End1.RatedU, 0)
	assert.InDelta(t, 220.0, got.End2.RatedU, 0)
	assert.Equal(t, "T1-1", got.End1.Terminal)
	assert.Equal(t, "T1-2", got.End2.Terminal)
}
