package convert

import "xfmr-converter/internal/tapchanger"

// End1 is the side of a converted two-port that carries every tap changer
// and the whole shunt admittance.
type End1 struct {
	G               float64
	B               float64
	RatioTapChanger *tapchanger.TapChanger
	PhaseTapChanger *tapchanger.TapChanger
	RatedU          float64
	Terminal        string
	PhaseAngleClock int
}

// End2 is the bare side of a converted two-port. For a leg it is the star bus.
type End2 struct {
	RatedU          float64
	Terminal        string
	PhaseAngleClock int
}

// T2x is a two-winding transformer in the target layout.
type T2x struct {
	ID   string
	R    float64
	X    float64
	End1 End1
	End2 End2
}

// Leg is one winding of a converted three-winding transformer.
type Leg struct {
	R       float64
	X       float64
	End1    End1
	StarBus End2
}

// T3x is a three-winding transformer in the target layout.
type T3x struct {
	ID      string
	RatedU0 float64
	Legs    [3]Leg
}
