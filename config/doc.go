// Package config loads the YAML build/serve configuration file into the
// functional-options structs nodegraph, compressor, edgebased, spatial,
// scc, and facade each already expose. The core packages never
// parse YAML themselves — spec.md §6 keeps the CLI/config surface entirely
// in the outer shell; this package is that shell's one translation layer.
package config
