// Package diagnostic collects the structured reports emitted while a
// transformer is loaded and converted.
//
// Conversion never fails on bad input values. Instead every substitution
// is reported through a Reporter:
//   - fixed: a value was replaced by a documented default
//   - invalid: a record could not be interpreted and a neutral fallback was used
//   - missing: a required piece of data was absent (e.g. a tap changer table step)
//   - ignored: data was present but deliberately not used
//   - tap_changer_fixed: a tap changer lost its step range during combination
package diagnostic
