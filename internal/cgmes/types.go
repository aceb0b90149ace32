package cgmes

// Document is the root of an input file.
type Document struct {
	Version            string              `yaml:"version"`
	RegulatingControls []RegulatingControl `yaml:"regulatingControls,omitempty"`
	Transformers       []Transformer       `yaml:"transformers"`
}

// RegulatingControl is a regulating control a tap changer may refer to.
type RegulatingControl struct {
	ID          string `yaml:"id"`
	Enabled     bool   `yaml:"enabled"`
	Mode        string `yaml:"mode,omitempty"`
	TargetValue Number `yaml:"targetValue,omitempty"`
}

// Transformer is a power transformer with two or three ends.
type Transformer struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Ends []End  `yaml:"ends"`
}

// IsTwoWindings reports a two-winding transformer.
func (t *Transformer) IsTwoWindings() bool {
	return len(t.Ends) == 2
}

// IsThreeWindings reports a three-winding transformer.
func (t *Transformer) IsThreeWindings() bool {
	return len(t.Ends) == 3
}

// End is a power transformer end (winding).
type End struct {
	R               Number            `yaml:"r"`
	X               Number            `yaml:"x"`
	G               Number            `yaml:"g,omitempty"`
	B               Number            `yaml:"b,omitempty"`
	RatedU          Number            `yaml:"ratedU"`
	Terminal        string            `yaml:"terminal,omitempty"`
	PhaseAngleClock int               `yaml:"phaseAngleClock,omitempty"`
	RatioTapChanger *TapChangerRecord `yaml:"ratioTapChanger,omitempty"`
	PhaseTapChanger *TapChangerRecord `yaml:"phaseTapChanger,omitempty"`
}

// TapChangerRecord holds the attributes of a ratio or phase tap changer.
type TapChangerRecord struct {
	ID string `yaml:"id"`
	// Type is the phase tap changer kind (tabular, symmetrical, asymmetrical).
	Type        string `yaml:"type,omitempty"`
	LowStep     int    `yaml:"lowStep"`
	HighStep    int    `yaml:"highStep"`
	NeutralStep int    `yaml:"neutralStep"`
	NormalStep  *int   `yaml:"normalStep,omitempty"`
	// Step is the solved or scheduled position, possibly continuous.
	Step                    Number `yaml:"step,omitempty"`
	LtcFlag                 bool   `yaml:"ltcFlag,omitempty"`
	StepVoltageIncrement    Number `yaml:"stepVoltageIncrement,omitempty"`
	StepPhaseShiftIncrement Number `yaml:"stepPhaseShiftIncrement,omitempty"`
	WindingConnectionAngle  Number `yaml:"windingConnectionAngle,omitempty"`
	XStepMin                Number `yaml:"xStepMin,omitempty"`
	XStepMax                Number `yaml:"xStepMax,omitempty"`
	XMin                    Number `yaml:"xMin,omitempty"`
	XMax                    Number `yaml:"xMax,omitempty"`
	RegulatingControlID     string `yaml:"regulatingControlId,omitempty"`
	ControlMode             string `yaml:"controlMode,omitempty"`
	ControlEnabled          bool   `yaml:"controlEnabled,omitempty"`
	Table                   *Table `yaml:"table,omitempty"`
}

// ReactanceRange returns the step reactance bounds, preferring
// xStepMin/xStepMax over xMin/xMax.
func (r *TapChangerRecord) ReactanceRange() (xMin, xMax float64) {
	xMin = r.XStepMin.Or(r.XMin.Float())
	xMax = r.XStepMax.Or(r.XMax.Float())

	return xMin, xMax
}

// Table is a ratio or phase tap changer table.
type Table struct {
	ID     string       `yaml:"id"`
	Points []TablePoint `yaml:"points"`
}

// TablePoint is one row of a tap changer table.
type TablePoint struct {
	Step  int    `yaml:"step"`
	Ratio Number `yaml:"ratio,omitempty"`
	Angle Number `yaml:"angle,omitempty"`
	R     Number `yaml:"r,omitempty"`
	X     Number `yaml:"x,omitempty"`
	G     Number `yaml:"g,omitempty"`
	B     Number `yaml:"b,omitempty"`
}

// RegulatingControl returns the control with the given id.
func (d *Document) RegulatingControl(id string) (RegulatingControl, bool) {
	for _, rc := range d.RegulatingControls {
		if rc.ID == id {
			return rc, true
		}
	}

	return RegulatingControl{}, false
}
