// Package driving defines the inbound ports of the hexagonal core:
// interfaces the viewer shell and CLI call into.
//
// Implementations live in internal/core/services.
package driving
