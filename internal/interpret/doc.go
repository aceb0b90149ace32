// Package interpret places the tap changers, shunt admittances, phase
// angle clocks and structural ratio of a loaded transformer according to
// a configured set of alternatives.
//
// Loading (LoadT2x, LoadT3x) turns cgmes records into raw models with
// built tap changers. Interpretation (Interpret2, Interpret3) produces
// the interpreted tier consumed by the convert package. Neither step
// mutates its input.
package interpret
