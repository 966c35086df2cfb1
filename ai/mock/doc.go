// Package mock provides test doubles for the ai service interfaces.
//
// Each mock exposes function fields for behavior injection and a CallCount
// method for assertions. Default behaviors are deterministic so tests stay
// reproducible without an external model.
package mock
