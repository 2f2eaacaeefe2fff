// Package driven defines the outbound ports of the hexagonal core:
// interfaces the core depends on and adapters implement (storage,
// rasterization, configuration).
//
// Implementations live under internal/adapters/driven.
package driven
