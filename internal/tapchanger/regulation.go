package tapchanger

import "xfmr-converter/internal/cgmes"

// Regulation is the effective regulating state of a tap changer.
type Regulation struct {
	Regulating          bool
	RegulatingControlID string
}

// RegulatingResolver binds a tap changer to its regulating control.
type RegulatingResolver interface {
	Resolve(tapChangerID, regulatingControlID string, controlEnabled bool, controlMode string) Regulation
}

// ResolverFunc adapts a function to RegulatingResolver.
type ResolverFunc func(tapChangerID, regulatingControlID string, controlEnabled bool, controlMode string) Regulation

// Resolve implements RegulatingResolver.
func (f ResolverFunc) Resolve(tapChangerID, regulatingControlID string, controlEnabled bool, controlMode string) Regulation {
	return f(tapChangerID, regulatingControlID, controlEnabled, controlMode)
}

// EnabledResolver regulates whenever control is enabled and a control id is given.
var EnabledResolver = ResolverFunc(func(_, regulatingControlID string, controlEnabled bool, _ string) Regulation {
	return Regulation{
		Regulating:          controlEnabled && regulatingControlID != "",
		RegulatingControlID: regulatingControlID,
	}
})

// ControlsResolver regulates when the tap changer control is enabled and it
// refers to a known, enabled regulating control. Unknown controls are dropped.
func ControlsResolver(controls []cgmes.RegulatingControl) RegulatingResolver {
	byID := make(map[string]cgmes.RegulatingControl, len(controls))
	for _, rc := range controls {
		byID[rc.ID] = rc
	}

	return ResolverFunc(func(_, regulatingControlID string, controlEnabled bool, _ string) Regulation {
		rc, ok := byID[regulatingControlID]
		if !ok {
			return Regulation{}
		}

		return Regulation{
			Regulating:          controlEnabled && rc.Enabled,
			RegulatingControlID: rc.ID,
		}
	})
}
