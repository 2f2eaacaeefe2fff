// Package services implements the driving ports: the document library,
// marker and annotation stores, the compositor and the viewer session.
//
// Services depend only on domain types and driven ports; adapters are
// injected through constructors.
package services
