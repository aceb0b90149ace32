// Package tapchanger holds the tap changer value model and the algebra used
// to normalize a transformer with up to two tap changers per kind into the
// single tap changer per kind a network model supports.
//
// A *TapChanger is nil when the device is absent. Every operation accepts
// nil and classifies it as CategoryNull.
//
// The package provides:
//   - Builder: raw exchange records to TapChanger (tabular or synthesized steps)
//   - Combiner: priority based combination of two tap changers
//   - Move, MoveRatio: migration of a tap changer or a structural ratio
//     across the ideal transformer
package tapchanger
