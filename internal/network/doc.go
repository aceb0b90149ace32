// Package network is the boundary to the target grid model. Mapper copies
// converted transformers into any Network, and Store is the in-memory
// Network written out as YAML by the CLI.
package network
