package cluster

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// pcgStream is xored into the seed to derive the second PCG word.
const pcgStream = 0x9e3779b97f4a7c15

// Params configures a generation run.
type Params struct {
	Clusters         int
	PointsPerCluster int
	Bounds           Bounds
	StdDev           float64

	// MaxPoints > PointsPerCluster draws each cluster's size uniformly from
	// [PointsPerCluster, MaxPoints]. Zero keeps every cluster the same size.
	MaxPoints int
	// MaxStdDev > StdDev draws each cluster's sigma uniformly from
	// [StdDev, MaxStdDev]. Zero keeps sigma fixed.
	MaxStdDev float64

	// Seed fixes the random source. Nil picks one from the clock.
	Seed *int64

	// Integer truncates centres and samples toward zero.
	Integer bool
}

// Validate checks every parameter and returns the first violation as a
// *ParamError.
func (p Params) Validate() error {
	if p.Clusters <= 0 {
		return invalidf("clusters", "must be positive, got %d", p.Clusters)
	}
	if p.PointsPerCluster <= 0 {
		return invalidf("points", "must be positive, got %d", p.PointsPerCluster)
	}
	if p.MaxPoints != 0 && p.MaxPoints < p.PointsPerCluster {
		return invalidf("max-points", "must be 0 or at least points (%d), got %d", p.PointsPerCluster, p.MaxPoints)
	}
	if !(p.StdDev > 0) || math.IsInf(p.StdDev, 0) {
		return invalidf("std-dev", "must be a positive finite number, got %g", p.StdDev)
	}
	if p.MaxStdDev != 0 && (!(p.MaxStdDev >= p.StdDev) || math.IsInf(p.MaxStdDev, 0)) {
		return invalidf("max-std-dev", "must be 0 or at least std-dev (%g), got %g", p.StdDev, p.MaxStdDev)
	}
	if err := p.Bounds.Validate(); err != nil {
		return err
	}
	if p.Integer && !p.Bounds.hasWholeNumbers() {
		return invalidf("integer", "bounds %s contain no whole-number centre", p.Bounds)
	}
	return nil
}

// Generate builds a Dataset from p. It returns an error wrapping
// ErrInvalidParameter when p fails validation.
func Generate(p Params) (*Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if p.Seed != nil {
		seed = *p.Seed
	}

	src := rand.NewPCG(uint64(seed), uint64(seed)^pcgStream)
	s := &sampler{params: p, src: src, rng: rand.New(src)}

	ds := &Dataset{
		Seed:     seed,
		Bounds:   p.Bounds,
		Clusters: make([]Cluster, p.Clusters),
	}
	for i := range ds.Clusters {
		ds.Clusters[i] = s.cluster(i)
	}
	return ds, nil
}

// sampler draws everything for one run from a single source. The order of
// draws per cluster is fixed: centre x, centre y, sigma, size, then points.
type sampler struct {
	params Params
	src    rand.Source
	rng    *rand.Rand
}

func (s *sampler) cluster(id int) Cluster {
	p := s.params
	center := Coord{
		X: distuv.Uniform{Min: p.Bounds.MinX, Max: p.Bounds.MaxX, Src: s.src}.Rand(),
		Y: distuv.Uniform{Min: p.Bounds.MinY, Max: p.Bounds.MaxY, Src: s.src}.Rand(),
	}
	if p.Integer {
		center = Coord{
			X: truncWithin(center.X, p.Bounds.MinX, p.Bounds.MaxX),
			Y: truncWithin(center.Y, p.Bounds.MinY, p.Bounds.MaxY),
		}
	}

	sigma := p.StdDev
	if p.MaxStdDev > p.StdDev {
		sigma = distuv.Uniform{Min: p.StdDev, Max: p.MaxStdDev, Src: s.src}.Rand()
	}

	n := p.PointsPerCluster
	if p.MaxPoints > p.PointsPerCluster {
		n += s.rng.IntN(p.MaxPoints - p.PointsPerCluster + 1)
	}

	nx := distuv.Normal{Mu: center.X, Sigma: sigma, Src: s.src}
	ny := distuv.Normal{Mu: center.Y, Sigma: sigma, Src: s.src}
	points := make([]Point, n)
	for i := range points {
		x, y := nx.Rand(), ny.Rand()
		if p.Integer {
			x, y = math.Trunc(x), math.Trunc(y)
		}
		points[i] = Point{X: x, Y: y, ClusterID: id}
	}

	return Cluster{ID: id, Center: center, StdDev: sigma, Points: points}
}

// truncWithin truncates v toward zero and keeps the result inside the whole
// numbers of [lo, hi]. Validate guarantees that range is not empty.
func truncWithin(v, lo, hi float64) float64 {
	return math.Min(math.Max(math.Trunc(v), math.Ceil(lo)), math.Floor(hi))
}
