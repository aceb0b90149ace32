// Package match recognises loosely spelled identifiers found in exchange
// files, such as phase tap changer kinds written as
// "PhaseTapChangerKind.symmetrical", "cim#PhaseTapChangerAsymmetrical" or
// "phase_tap_changer_tabular".
//
// Key functions:
//   - NormalizeIdent: case-folds and strips separators
//   - HasSuffixIdent: suffix test on normalized local names
//   - Levenshtein, Closest: edit distance and "did you mean" suggestions
package match
