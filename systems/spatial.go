// Package systems provides the controllers, combat model and spatial queries
// of the arena.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbor is a query candidate with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float64 // offset from the query origin
	Dist   float64
}

// Predicate filters query candidates. It must not mutate the world.
type Predicate func(n Neighbor) bool

// Index answers nearest-qualifying-entity queries.
//
// Nearest returns the entity with the smallest distance to (x, y) that lies
// strictly within radius and satisfies accept (nil accepts all). Ties go to the
// entity inserted first. Positions are read live, so a query sees every move
// made earlier in the same tick.
type Index interface {
	Nearest(x, y, radius float64, accept Predicate) (Neighbor, bool)
}

// IndexBuilder is an Index rebuilt from the live population each tick.
type IndexBuilder interface {
	Index
	Clear()
	Insert(e ecs.Entity, x, y float64)
	Len() int
}

// Index kinds accepted by NewIndex.
const (
	IndexScan = "scan"
	IndexGrid = "grid"
)

// NewIndex creates the index named by kind. Unknown kinds fall back to a scan.
func NewIndex(kind string, b Bounds, cellSize float64, m *Maps) IndexBuilder {
	if kind == IndexGrid {
		return NewSpatialGrid(b.Width, b.Height, cellSize, m)
	}
	return NewScan(m)
}

// inclusive widens a strict query radius so that candidates at exactly r
// qualify.
func inclusive(r float64) float64 {
	return math.Nextafter(r, math.Inf(1))
}

// candidate builds a Neighbor for e if it beats the current best.
func candidate(m *Maps, e ecs.Entity, x, y, radius float64, best Neighbor, found bool) (Neighbor, bool) {
	if !m.Valid(e) {
		return Neighbor{}, false
	}
	pos := m.Pos.Get(e)
	d := r2.Sub(pos.Vec(), r2.Vec{X: x, Y: y})
	dist := r2.Norm(d)
	if dist >= radius || (found && dist >= best.Dist) {
		return Neighbor{}, false
	}
	return Neighbor{E: e, DX: d.X, DY: d.Y, Dist: dist}, true
}

// Scan is a linear index over an insertion-ordered entity list.
type Scan struct {
	maps     *Maps
	entities []ecs.Entity
}

// NewScan creates an empty scan index.
func NewScan(m *Maps) *Scan {
	return &Scan{maps: m}
}

// Clear removes all entities.
func (s *Scan) Clear() {
	s.entities = s.entities[:0]
}

// Insert appends an entity. The position argument is unused; positions are read live.
func (s *Scan) Insert(e ecs.Entity, _, _ float64) {
	s.entities = append(s.entities, e)
}

// Len returns the number of indexed entities.
func (s *Scan) Len() int {
	return len(s.entities)
}

// Nearest implements Index.
func (s *Scan) Nearest(x, y, radius float64, accept Predicate) (Neighbor, bool) {
	var best Neighbor
	found := false
	for _, e := range s.entities {
		n, ok := candidate(s.maps, e, x, y, radius, best, found)
		if !ok {
			continue
		}
		if accept != nil && !accept(n) {
			continue
		}
		best, found = n, true
	}
	return best, found
}

type gridEntry struct {
	e   ecs.Entity
	seq int
}

// SpatialGrid buckets entities by the cell they occupied when inserted.
// Queries search one extra ring of cells so movement within a tick is covered.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
	n        int
	maps     *Maps
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64, m *Maps) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 256
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		maps:     m,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.n = 0
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float64) {
	col, row := g.cellOf(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, seq: g.n})
	g.n++
}

// Len returns the number of indexed entities.
func (g *SpatialGrid) Len() int {
	return g.n
}

// Nearest implements Index. Ties are broken by insertion order, so results
// match a Scan built from the same sequence.
func (g *SpatialGrid) Nearest(x, y, radius float64, accept Predicate) (Neighbor, bool) {
	cellRadius := g.cols + g.rows
	if r := radius / g.cellSize; !math.IsInf(r, 0) && r < float64(cellRadius) {
		cellRadius = int(r) + 2
	}

	centerCol, centerRow := g.cellOf(x, y)
	minCol, maxCol := max(0, centerCol-cellRadius), min(g.cols-1, centerCol+cellRadius)
	minRow, maxRow := max(0, centerRow-cellRadius), min(g.rows-1, centerRow+cellRadius)

	var best Neighbor
	bestSeq := -1
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, entry := range g.cells[row*g.cols+col] {
				n, ok := candidate(g.maps, entry.e, x, y, radius, best, false)
				if !ok {
					continue
				}
				if bestSeq >= 0 && (n.Dist > best.Dist || (n.Dist == best.Dist && entry.seq > bestSeq)) {
					continue
				}
				if accept != nil && !accept(n) {
					continue
				}
				best, bestSeq = n, entry.seq
			}
		}
	}
	return best, bestSeq >= 0
}

// cellOf returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = int(clampFloat(x/g.cellSize, 0, float64(g.cols-1)))
	row = int(clampFloat(y/g.cellSize, 0, float64(g.rows-1)))
	return col, row
}
