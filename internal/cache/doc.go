// Package cache owns the mapping from element identity to last-computed
// position and height.
//
// Elements live in a dense slot table addressed by small integer handles
// ([ID]); a free list recycles handles only after an explicit release. Each
// slot carries an explicit dirty bit, so staleness is a testable property
// rather than an implicit cache-coherency assumption.
//
// A slot becomes dirty when its grid coordinate changes, when the field
// parameters are swapped ([Cache.Invalidate]), or when marked by the
// caller. Recompute is lazy: parameter swaps only mark, and the cost is
// paid on the next [Cache.Recompute] call, keeping the (bounded) recompute
// cost under the orchestrator's control.
package cache
