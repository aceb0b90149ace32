package tapchanger

import "xfmr-converter/internal/common"

// Category orders tap changers by combination priority.
type Category int

const (
	// CategoryNull is an absent tap changer.
	CategoryNull Category = iota
	// CategoryFixed has exactly one step, whatever its regulating flag.
	CategoryFixed
	// CategoryNonRegulating has several steps and does not regulate.
	CategoryNonRegulating
	// CategoryRegulating has several steps and regulates.
	CategoryRegulating
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNull:
		return "null"
	case CategoryFixed:
		return "fixed"
	case CategoryNonRegulating:
		return "non-regulating"
	case CategoryRegulating:
		return "regulating"
	default:
		return common.UnknownStr
	}
}

// Category classifies tc. It is safe on a nil receiver.
func (tc *TapChanger) Category() Category {
	switch {
	case tc == nil:
		return CategoryNull
	case common.IsSingle(tc.Steps):
		return CategoryFixed
	case !tc.Regulating:
		return CategoryNonRegulating
	default:
		return CategoryRegulating
	}
}
