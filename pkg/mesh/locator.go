package mesh

import "math"

// Locator is a uniform grid over the triangles of a [Graph] that answers
// point-location queries. Each cell lists the triangles whose bounding box
// overlaps it.
type Locator struct {
	sites     []Site
	triangles [][3]int

	minX, minY float64
	cellSize   float64
	cols, rows int
	cells      [][]int
}

func newLocator(sites []Site, tris [][3]int) *Locator {
	l := &Locator{sites: sites, triangles: tris}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range sites {
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	w, h := maxX-minX, maxY-minY

	// Roughly two triangles per cell.
	size := math.Sqrt(w * h / math.Max(1, float64(len(tris))/2))
	if size <= 0 || math.IsNaN(size) {
		size = math.Max(w, h)
	}
	if size <= 0 {
		size = 1
	}

	l.minX, l.minY, l.cellSize = minX, minY, size
	l.cols = int(w/size) + 1
	l.rows = int(h/size) + 1
	l.cells = make([][]int, l.cols*l.rows)

	for ti, t := range tris {
		a, b, c := sites[t[0]], sites[t[1]], sites[t[2]]
		c0, r0 := l.cell(math.Min(a.X, math.Min(b.X, c.X)), math.Min(a.Y, math.Min(b.Y, c.Y)))
		c1, r1 := l.cell(math.Max(a.X, math.Max(b.X, c.X)), math.Max(a.Y, math.Max(b.Y, c.Y)))
		for r := r0; r <= r1; r++ {
			for col := c0; col <= c1; col++ {
				idx := r*l.cols + col
				l.cells[idx] = append(l.cells[idx], ti)
			}
		}
	}
	return l
}

// cell returns the grid cell containing (x, y), clamped to the grid.
func (l *Locator) cell(x, y float64) (int, int) {
	col := int((x - l.minX) / l.cellSize)
	row := int((y - l.minY) / l.cellSize)
	return max(0, min(l.cols-1, col)), max(0, min(l.rows-1, row))
}

// Locate returns the index of a triangle containing (x, y).
// ok is false when the point lies outside the triangulated hull.
func (l *Locator) Locate(x, y float64) (tri int, ok bool) {
	if x < l.minX || y < l.minY {
		return -1, false
	}
	col := int((x - l.minX) / l.cellSize)
	row := int((y - l.minY) / l.cellSize)
	if col >= l.cols || row >= l.rows {
		return -1, false
	}

	for _, ti := range l.cells[row*l.cols+col] {
		if wa, wb, wc, ok := l.Barycentric(ti, x, y); ok {
			const eps = -1e-9
			if wa >= eps && wb >= eps && wc >= eps {
				return ti, true
			}
		}
	}
	return -1, false
}

// Barycentric returns the barycentric weights of (x, y) with respect to
// triangle ti. ok is false for degenerate triangles.
func (l *Locator) Barycentric(ti int, x, y float64) (wa, wb, wc float64, ok bool) {
	t := l.triangles[ti]
	a, b, c := l.sites[t[0]], l.sites[t[1]], l.sites[t[2]]

	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, false
	}
	wa = ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
	wb = ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
	wc = 1 - wa - wb
	return wa, wb, wc, true
}

// Interpolate blends the per-site values at (x, y) using the barycentric
// weights of the containing triangle. values must be indexed like the
// graph's sites. ok is false outside the hull.
func (l *Locator) Interpolate(values []float64, x, y float64) (float64, bool) {
	ti, ok := l.Locate(x, y)
	if !ok {
		return 0, false
	}
	wa, wb, wc, _ := l.Barycentric(ti, x, y)
	t := l.triangles[ti]
	return wa*values[t[0]] + wb*values[t[1]] + wc*values[t[2]], true
}
