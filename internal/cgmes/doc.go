// Package cgmes defines the raw transformer records delivered by the
// exchange-format query layer, and loads them from YAML documents.
//
// Records are kept as close to the exchange format as possible: numeric
// attributes may be absent or hold a non-numeric value, table points may be
// missing or out of order. Turning them into consistent tap changers is the
// job of the tapchanger.Builder; Validate only rejects documents whose
// structure cannot be converted at all.
package cgmes
