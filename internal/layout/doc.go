// Package layout orchestrates the wave-field layout engine.
//
// The [Engine] owns the validated field parameters, the element table, the
// spatial index, and the breathing settings, and exposes the whole
// contract consumed by rendering and interaction collaborators:
//
//   - [Engine.Tick] advances the field to a host-supplied time
//   - [Engine.SetParams] validates and atomically installs parameters
//   - [Engine.Register] / [Engine.Release] manage element lifecycle
//   - [Engine.PositionOf] / [Engine.BreathingOf] feed the renderer
//   - [Engine.Nearest] / [Engine.WithinRadius] feed interaction
//
// Rejected parameter sets never reach the cache: SetParams installs a set
// only when validation passes, and the caller gets the violations plus a
// clamped suggestion back either way.
//
// All mutation happens from the single frame-update call site; the engine
// does no locking and is not safe for concurrent mutation.
package layout
