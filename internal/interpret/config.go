package interpret

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Xfmr2RatioPhase selects where the tap changers of a two-winding
// transformer are placed.
type Xfmr2RatioPhase string

const (
	Xfmr2RatioPhaseEnd1     Xfmr2RatioPhase = "END1"
	Xfmr2RatioPhaseEnd2     Xfmr2RatioPhase = "END2"
	Xfmr2RatioPhaseEnd1End2 Xfmr2RatioPhase = "END1_END2"
	// Xfmr2RatioPhaseX places them at end1 when end1 has zero reactance,
	// at end2 otherwise.
	Xfmr2RatioPhaseX Xfmr2RatioPhase = "X"
)

// Xfmr2Shunt selects where the magnetizing admittance of a two-winding
// transformer is placed.
type Xfmr2Shunt string

const (
	Xfmr2ShuntEnd1     Xfmr2Shunt = "END1"
	Xfmr2ShuntEnd2     Xfmr2Shunt = "END2"
	Xfmr2ShuntEnd1End2 Xfmr2Shunt = "END1_END2"
	Xfmr2ShuntSplit    Xfmr2Shunt = "SPLIT"
)

// Xfmr2StructuralRatio selects the end holding the rated voltage ratio.
type Xfmr2StructuralRatio string

const (
	Xfmr2StructuralRatioEnd1 Xfmr2StructuralRatio = "END1"
	Xfmr2StructuralRatioEnd2 Xfmr2StructuralRatio = "END2"
	// Xfmr2StructuralRatioX uses end1 when end1 has zero reactance.
	Xfmr2StructuralRatioX Xfmr2StructuralRatio = "X"
	// Xfmr2StructuralRatioRTC uses end1 when end1 has a ratio tap changer
	// with a nonzero voltage increment.
	Xfmr2StructuralRatioRTC Xfmr2StructuralRatio = "RTC"
)

// Xfmr2PhaseAngleClock selects how winding clock numbers are kept.
type Xfmr2PhaseAngleClock string

const (
	Xfmr2PhaseAngleClockOff      Xfmr2PhaseAngleClock = "OFF"
	Xfmr2PhaseAngleClockEnd1End2 Xfmr2PhaseAngleClock = "END1_END2"
)

// Xfmr3RatioPhase selects the leg side holding a winding's tap changers.
type Xfmr3RatioPhase string

const (
	Xfmr3RatioPhaseNetworkSide Xfmr3RatioPhase = "NETWORK_SIDE"
	Xfmr3RatioPhaseStarBusSide Xfmr3RatioPhase = "STAR_BUS_SIDE"
)

// Xfmr3Shunt selects the leg side holding a winding's shunt admittance.
type Xfmr3Shunt string

const (
	Xfmr3ShuntNetworkSide Xfmr3Shunt = "NETWORK_SIDE"
	Xfmr3ShuntStarBusSide Xfmr3Shunt = "STAR_BUS_SIDE"
	Xfmr3ShuntSplit       Xfmr3Shunt = "SPLIT"
)

// Xfmr3StructuralRatio selects the star bus voltage and the side of the
// structural ratio of each leg.
type Xfmr3StructuralRatio string

const (
	Xfmr3StructuralRatioNetworkSide Xfmr3StructuralRatio = "NETWORK_SIDE"
	Xfmr3StructuralRatioStarBusSide Xfmr3StructuralRatio = "STAR_BUS_SIDE"
	Xfmr3StructuralRatioEnd1        Xfmr3StructuralRatio = "END1"
	Xfmr3StructuralRatioEnd2        Xfmr3StructuralRatio = "END2"
	Xfmr3StructuralRatioEnd3        Xfmr3StructuralRatio = "END3"
)

// Xfmr3PhaseAngleClock selects the leg side keeping a winding clock number.
type Xfmr3PhaseAngleClock string

const (
	Xfmr3PhaseAngleClockOff         Xfmr3PhaseAngleClock = "OFF"
	Xfmr3PhaseAngleClockNetworkSide Xfmr3PhaseAngleClock = "NETWORK_SIDE"
	Xfmr3PhaseAngleClockStarBusSide Xfmr3PhaseAngleClock = "STAR_BUS_SIDE"
)

// Xfmr2Config holds the two-winding alternatives.
type Xfmr2Config struct {
	RatioPhase      Xfmr2RatioPhase      `yaml:"ratioPhase"`
	Phase1Negate    bool                 `yaml:"phase1Negate"`
	Phase2Negate    bool                 `yaml:"phase2Negate"`
	Shunt           Xfmr2Shunt           `yaml:"shunt"`
	StructuralRatio Xfmr2StructuralRatio `yaml:"structuralRatio"`
	PhaseAngleClock Xfmr2PhaseAngleClock `yaml:"phaseAngleClock"`
	Clock1Negate    bool                 `yaml:"clock1Negate"`
	Clock2Negate    bool                 `yaml:"clock2Negate"`
}

// Xfmr3Config holds the three-winding alternatives.
type Xfmr3Config struct {
	RatioPhase      Xfmr3RatioPhase      `yaml:"ratioPhase"`
	Shunt           Xfmr3Shunt           `yaml:"shunt"`
	StructuralRatio Xfmr3StructuralRatio `yaml:"structuralRatio"`
	PhaseAngleClock Xfmr3PhaseAngleClock `yaml:"phaseAngleClock"`
}

// Config is the full set of interpretation alternatives.
type Config struct {
	Xfmr2 Xfmr2Config `yaml:"xfmr2"`
	Xfmr3 Xfmr3Config `yaml:"xfmr3"`
}

// DefaultConfig returns the alternatives used when none are configured.
func DefaultConfig() Config {
	return Config{
		Xfmr2: Xfmr2Config{
			RatioPhase:      Xfmr2RatioPhaseEnd1End2,
			Shunt:           Xfmr2ShuntEnd1End2,
			StructuralRatio: Xfmr2StructuralRatioX,
			PhaseAngleClock: Xfmr2PhaseAngleClockOff,
		},
		Xfmr3: Xfmr3Config{
			RatioPhase:      Xfmr3RatioPhaseNetworkSide,
			Shunt:           Xfmr3ShuntNetworkSide,
			StructuralRatio: Xfmr3StructuralRatioStarBusSide,
			PhaseAngleClock: Xfmr3PhaseAngleClockOff,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML over the defaults. Keys that are absent keep
// their default value.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

// MarshalConfig serializes a Config to YAML.
func MarshalConfig(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// decodeEnum reads a scalar and checks it against the allowed values.
func decodeEnum[T ~string](node *yaml.Node, name string, allowed ...T) (T, error) {
	var s string
	if err := node.Decode(&s); err != nil {
		return "", err
	}

	v := T(s)
	if !slices.Contains(allowed, v) {
		return "", fmt.Errorf("line %d: invalid %s %q (expected one of %v)", node.Line, name, s, allowed)
	}

	return v, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr2RatioPhase) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr2 ratioPhase",
		Xfmr2RatioPhaseEnd1, Xfmr2RatioPhaseEnd2, Xfmr2RatioPhaseEnd1End2, Xfmr2RatioPhaseX)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr2Shunt) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr2 shunt",
		Xfmr2ShuntEnd1, Xfmr2ShuntEnd2, Xfmr2ShuntEnd1End2, Xfmr2ShuntSplit)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr2StructuralRatio) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr2 structuralRatio",
		Xfmr2StructuralRatioEnd1, Xfmr2StructuralRatioEnd2, Xfmr2StructuralRatioX, Xfmr2StructuralRatioRTC)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr2PhaseAngleClock) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr2 phaseAngleClock", Xfmr2PhaseAngleClockOff, Xfmr2PhaseAngleClockEnd1End2)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr3RatioPhase) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr3 ratioPhase", Xfmr3RatioPhaseNetworkSide, Xfmr3RatioPhaseStarBusSide)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr3Shunt) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr3 shunt", Xfmr3ShuntNetworkSide, Xfmr3ShuntStarBusSide, Xfmr3ShuntSplit)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr3StructuralRatio) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr3 structuralRatio",
		Xfmr3StructuralRatioNetworkSide, Xfmr3StructuralRatioStarBusSide,
		Xfmr3StructuralRatioEnd1, Xfmr3StructuralRatioEnd2, Xfmr3StructuralRatioEnd3)
	if err != nil {
		return err
	}

	*v = d

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Xfmr3PhaseAngleClock) UnmarshalYAML(node *yaml.Node) error {
	d, err := decodeEnum(node, "xfmr3 phaseAngleClock",
		Xfmr3PhaseAngleClockOff, Xfmr3PhaseAngleClockNetworkSide, Xfmr3PhaseAngleClockStarBusSide)
	if err != nil {
		return err
	}

	*v = d

	return nil
}
