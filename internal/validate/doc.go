// Package validate checks wave-field parameter sets against a configured
// safety envelope before they are installed into the layout engine.
//
// Four independent checks run per call, each producing its own violation
// kind:
//
//   - [KindRange]: per-field frequency/amplitude/speed envelope
//   - [KindStability]: synthetic time-window probe for runaway interference
//   - [KindComfort]: combined oscillation rate against a motion-discomfort limit
//   - [KindBudget]: projected per-frame evaluation cost against the frame budget
//
// Validation is a pure function of its inputs plus an injected [Bounds]
// table. The bound values are configuration, not constants: presets ship in
// the config package and callers are expected to swap them per target
// device.
//
// A failed result carries a clamped parameter set in Suggested so callers
// always have a path forward.
package validate
