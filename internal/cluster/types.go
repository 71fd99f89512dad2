package cluster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coord is a position in the plane.
type Coord struct {
	X float64
	Y float64
}

// Point is a single generated sample and the cluster it was drawn for.
type Point struct {
	X         float64
	Y         float64
	ClusterID int
}

// Cluster holds the ground truth for one Gaussian blob and its samples.
type Cluster struct {
	ID     int
	Center Coord
	StdDev float64
	Points []Point
}

// Dataset is the output of one generation run.
type Dataset struct {
	// Seed is the seed actually used, including a time-derived one.
	Seed     int64
	Bounds   Bounds
	Clusters []Cluster
}

// Len returns the total number of points across all clusters.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, c := range d.Clusters {
		n += len(c.Points)
	}
	return n
}

// Points returns all points flattened in cluster order.
func (d *Dataset) Points() []Point {
	out := make([]Point, 0, d.Len())
	if d == nil {
		return out
	}
	for _, c := range d.Clusters {
		out = append(out, c.Points...)
	}
	return out
}

// Centroids returns the generating centre of each cluster, in cluster order.
func (d *Dataset) Centroids() []Coord {
	if d == nil {
		return nil
	}
	out := make([]Coord, len(d.Clusters))
	for i, c := range d.Clusters {
		out[i] = c.Center
	}
	return out
}

// Bounds is the rectangle cluster centres are placed in.
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Validate rejects non-finite or zero-area bounds.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("bounds", "coordinates must be finite, got %s", b)
		}
	}
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return invalidf("bounds", "degenerate rectangle %s (need xmin < xmax and ymin < ymax)", b)
	}
	// Samplers work on the width and height, which must fit in a float64.
	if math.IsInf(b.MaxX-b.MinX, 0) || math.IsInf(b.MaxY-b.MinY, 0) {
		return invalidf("bounds", "rectangle %s is too large: width and height must be finite", b)
	}
	return nil
}

// hasWholeNumbers reports whether both axes contain at least one integer.
func (b Bounds) hasWholeNumbers() bool {
	return math.Ceil(b.MinX) <= math.Floor(b.MaxX) && math.Ceil(b.MinY) <= math.Floor(b.MaxY)
}

// Contains reports whether (x, y) lies inside the closed rectangle.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// String renders the bounds in the same form ParseBounds accepts.
func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// ParseBounds parses "xmin,ymin,xmax,ymax".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, invalidf("bounds", "expected xmin,ymin,xmax,ymax, got %q", s)
	}
	var vals [4]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Bounds{}, invalidf("bounds", "invalid float '%s'", p)
		}
		vals[i] = v
	}
	b := Bounds{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}
