package interpret

import "xfmr-converter/internal/tapchanger"

// RawEnd is one transformer end as loaded, before any alternative is applied.
type RawEnd struct {
	R               float64
	X               float64
	G               float64
	B               float64
	RatedU          float64
	Terminal        string
	PhaseAngleClock int
	RatioTapChanger *tapchanger.TapChanger
	PhaseTapChanger *tapchanger.TapChanger
	// XIsZero is true when this end's own reactance is exactly zero.
	XIsZero bool
	// RtcDefined is true when the end has a ratio tap changer with a
	// nonzero voltage increment.
	RtcDefined bool
}

// RawT2x is a loaded two-winding transformer. R and X are the sums of
// both ends.
type RawT2x struct {
	ID   string
	R    float64
	X    float64
	End1 RawEnd
	End2 RawEnd
}

// RawT3x is a loaded three-winding transformer.
type RawT3x struct {
	ID       string
	Windings [3]RawEnd
}

// End is one side of an interpreted two-port.
type End struct {
	G               float64
	B               float64
	RatioTapChanger *tapchanger.TapChanger
	PhaseTapChanger *tapchanger.TapChanger
	RatedU          float64
	Terminal        string
	PhaseAngleClock int
}

// T2x is a two-winding transformer after interpretation.
type T2x struct {
	ID                    string
	R                     float64
	X                     float64
	End1                  End
	End2                  End
	StructuralRatioAtEnd2 bool
}

// Leg is one winding of a three-winding transformer seen as a two-port:
// End1 is the network side, End2 the star bus side.
type Leg struct {
	R                     float64
	X                     float64
	End1                  End
	End2                  End
	StructuralRatioAtEnd2 bool
}

// T3x is a three-winding transformer after interpretation.
type T3x struct {
	ID      string
	RatedU0 float64
	Legs    [3]Leg
}
