package network

// TapStep is one step of a target tap changer. Rho is the inverse of the
// step ratio and Alpha the opposite of the step angle; R, X, G and B are
// percentage deviations.
type TapStep struct {
	Rho   float64 `yaml:"rho"`
	Alpha float64 `yaml:"alpha,omitempty"`
	R     float64 `yaml:"r"`
	X     float64 `yaml:"x"`
	G     float64 `yaml:"g"`
	B     float64 `yaml:"b"`
}

// RatioTapChanger is a ratio tap changer of the target model.
type RatioTapChanger struct {
	ID                          string    `yaml:"id"`
	LowTapPosition              int       `yaml:"lowTapPosition"`
	TapPosition                 int       `yaml:"tapPosition"`
	LoadTapChangingCapabilities bool      `yaml:"loadTapChangingCapabilities"`
	Regulating                  bool      `yaml:"regulating"`
	RegulatingControlID         string    `yaml:"regulatingControlId,omitempty"`
	Steps                       []TapStep `yaml:"steps"`
}

// PhaseTapChanger is a phase tap changer of the target model.
type PhaseTapChanger struct {
	ID                  string    `yaml:"id"`
	LowTapPosition      int       `yaml:"lowTapPosition"`
	TapPosition         int       `yaml:"tapPosition"`
	Regulating          bool      `yaml:"regulating"`
	RegulatingControlID string    `yaml:"regulatingControlId,omitempty"`
	Steps               []TapStep `yaml:"steps"`
}

// HiddenTapChanger is a source tap changer absorbed into a combined one.
// Step is the position it was fixed at.
type HiddenTapChanger struct {
	ID                   string `yaml:"id"`
	CombinedTapChangerID string `yaml:"combinedTapChangerId"`
	Step                 int    `yaml:"step"`
}

// TwoWindingsTransformer is a two-winding transformer of the target model.
// Every tap changer and the shunt admittance sit at end1.
type TwoWindingsTransformer struct {
	ID                string             `yaml:"id"`
	R                 float64            `yaml:"r"`
	X                 float64            `yaml:"x"`
	G                 float64            `yaml:"g"`
	B                 float64            `yaml:"b"`
	RatedU1           float64            `yaml:"ratedU1"`
	RatedU2           float64            `yaml:"ratedU2"`
	Terminal1         string             `yaml:"terminal1,omitempty"`
	Terminal2         string             `yaml:"terminal2,omitempty"`
	PhaseAngleClock1  int                `yaml:"phaseAngleClock1,omitempty"`
	PhaseAngleClock2  int                `yaml:"phaseAngleClock2,omitempty"`
	RatioTapChanger   *RatioTapChanger   `yaml:"ratioTapChanger,omitempty"`
	PhaseTapChanger   *PhaseTapChanger   `yaml:"phaseTapChanger,omitempty"`
	HiddenTapChangers []HiddenTapChanger `yaml:"hiddenTapChangers,omitempty"`
}

// Leg is one winding of a ThreeWindingsTransformer, from its network
// terminal to the star bus.
type Leg struct {
	R                      float64            `yaml:"r"`
	X                      float64            `yaml:"x"`
	G                      float64            `yaml:"g"`
	B                      float64            `yaml:"b"`
	RatedU                 float64            `yaml:"ratedU"`
	Terminal               string             `yaml:"terminal,omitempty"`
	PhaseAngleClock        int                `yaml:"phaseAngleClock,omitempty"`
	StarBusPhaseAngleClock int                `yaml:"starBusPhaseAngleClock,omitempty"`
	RatioTapChanger        *RatioTapChanger   `yaml:"ratioTapChanger,omitempty"`
	PhaseTapChanger        *PhaseTapChanger   `yaml:"phaseTapChanger,omitempty"`
	HiddenTapChangers      []HiddenTapChanger `yaml:"hiddenTapChangers,omitempty"`
}

// ThreeWindingsTransformer is a three-winding transformer of the target model.
type ThreeWindingsTransformer struct {
	ID      string  `yaml:"id"`
	RatedU0 float64 `yaml:"ratedU0"`
	Legs    [3]Leg  `yaml:"legs"`
}

// RegulatingData is the regulation of one tap changer, forwarded as read.
// Leg is 0 for a two-winding transformer, 1 to 3 for a leg.
type RegulatingData struct {
	TapChangerID        string `yaml:"tapChangerId"`
	Leg                 int    `yaml:"leg,omitempty"`
	Regulating          bool   `yaml:"regulating"`
	RegulatingControlID string `yaml:"regulatingControlId,omitempty"`
	ControlMode         string `yaml:"controlMode,omitempty"`
	ControlEnabled      bool   `yaml:"controlEnabled"`
	LtcFlag             bool   `yaml:"ltcFlag,omitempty"`
}

// IsZero reports that no tap changer is described.
func (d RegulatingData) IsZero() bool {
	return d.TapChangerID == ""
}
