// Package spatial answers nearest-element and radius queries over a cache
// snapshot.
//
// At tens to low hundreds of elements a uniform bucket grid rebuilt every
// frame beats a tree structure: rebuild is a single pass, and queries scan
// a handful of cells. Buckets are keyed by XZ cell only; heights ride along
// in the stored positions and distances are full 3D.
package spatial

import (
	"math"
	"sort"

	"github.com/driftlab/wavelayout/internal/cache"
	"github.com/driftlab/wavelayout/internal/wavefield"
)

type cellKey struct {
	X, Z int32
}

// Index is a flat spatial partition over the latest cache snapshot.
// Rebuild fully replaces the contents; the index never mutates entries.
type Index struct {
	cellSize float64
	entries  []cache.Entry
	cells    map[cellKey][]int
}

// New creates an index with the given bucket size. The cell size should be
// on the order of the expected query radius.
func New(cellSize float64) *Index {
	if cellSize <= 0 {
		cellSize = 1.0
	}
	return &Index{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Rebuild replaces the index contents with the given snapshot. The
// snapshot slice is retained until the next Rebuild; callers must not
// mutate it while the index is live.
func (ix *Index) Rebuild(snapshot []cache.Entry) {
	ix.entries = snapshot
	clear(ix.cells)
	for i, e := range snapshot {
		k := ix.keyFor(e.Pos)
		ix.cells[k] = append(ix.cells[k], i)
	}
}

// Len returns the number of indexed elements.
func (ix *Index) Len() int { return len(ix.entries) }

// Nearest returns the element closest to p. Equal distances resolve to the
// lowest handle. ok is false when the index is empty.
func (ix *Index) Nearest(p wavefield.Vec3) (cache.ID, bool) {
	if len(ix.entries) == 0 {
		return 0, false
	}

	center := ix.keyFor(p)
	bestDist := math.Inf(1)
	var bestID cache.ID

	// Expanding ring scan. A cell at Chebyshev ring r is at least
	// (r-1)*cellSize away horizontally, and 3D distance is never smaller
	// than horizontal distance, so once that bound exceeds the best hit
	// the scan is complete. Every entry sits on some finite ring, so the
	// loop always terminates.
	for r := 0; ; r++ {
		if !math.IsInf(bestDist, 1) && float64(r-1)*ix.cellSize > bestDist {
			break
		}
		ix.forRing(center, r, func(idxs []int) {
			for _, i := range idxs {
				e := ix.entries[i]
				d := e.Pos.DistanceTo(p)
				if d < bestDist || (d == bestDist && e.ID < bestID) {
					bestDist = d
					bestID = e.ID
				}
			}
		})
	}

	return bestID, true
}

// WithinRadius returns every element within radius of p, in ascending
// handle order. The boundary is inclusive.
func (ix *Index) WithinRadius(p wavefield.Vec3, radius float64) []cache.ID {
	if radius < 0 || len(ix.entries) == 0 {
		return nil
	}

	cellRadius := int32(math.Ceil(radius/ix.cellSize)) + 1
	center := ix.keyFor(p)

	var out []cache.ID
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dz := -cellRadius; dz <= cellRadius; dz++ {
			k := cellKey{center.X + dx, center.Z + dz}
			for _, i := range ix.cells[k] {
				e := ix.entries[i]
				if e.Pos.DistanceTo(p) <= radius {
					out = append(out, e.ID)
				}
			}
		}
	}

	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

func (ix *Index) keyFor(p wavefield.Vec3) cellKey {
	return cellKey{
		X: int32(math.Floor(p.X / ix.cellSize)),
		Z: int32(math.Floor(p.Z / ix.cellSize)),
	}
}

// forRing visits the non-empty cells on the Chebyshev ring of radius r
// around center.
func (ix *Index) forRing(center cellKey, r int, fn func([]int)) {
	if r == 0 {
		if c, ok := ix.cells[center]; ok {
			fn(c)
		}
		return
	}
	rr := int32(r)
	for dx := -rr; dx <= rr; dx++ {
		for _, dz := range ringZ(dx, rr) {
			k := cellKey{center.X + dx, center.Z + dz}
			if c, ok := ix.cells[k]; ok {
				fn(c)
			}
		}
	}
}

func ringZ(dx, r int32) []int32 {
	if dx == -r || dx == r {
		out := make([]int32, 0, 2*r+1)
		for dz := -r; dz <= r; dz++ {
			out = append(out, dz)
		}
		return out
	}
	return []int32{-r, r}
}
