// Package convert assembles interpreted transformers into the target
// layout, where every tap changer and the structural ratio sit at end1,
// and drives the whole load, interpret and assemble pipeline for
// single transformers or batches.
package convert
