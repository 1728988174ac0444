// Package wavefield implements the traveling-wave height field used to
// place elements in 3D space.
//
// The field is a pure function of 2D position, time, and a parameter set:
//
//   - [Component]: one parametrized sinusoid (frequency, amplitude, speed, phase)
//   - [Params]: the full field description (three components + interference)
//   - [Evaluate]: scalar height at a point
//   - [EvaluateBatch]: bit-identical batch evaluation with optional fan-out
//   - [Gradient]: analytic spatial gradient of the height
//
// # Example
//
//	params := wavefield.DefaultParams()
//	h := wavefield.Evaluate(wavefield.Vec2{X: 1, Y: 0}, t, params)
//
// # Thread Safety
//
// All evaluation functions are pure and safe for concurrent use as long as
// callers treat Params as an immutable value: swap whole values, never
// mutate a Params in place while another goroutine evaluates with it.
package wavefield
