package cluster

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func seedPtr(v int64) *int64 { return &v }

func baseParams() Params {
	return Params{
		Clusters:         2,
		PointsPerCluster: 50,
		Bounds:           Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		StdDev:           0.5,
		Seed:             seedPtr(42),
	}
}

func TestGenerate_PointCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		clusters, points int
	}{
		{1, 1},
		{2, 50},
		{3, 100},
		{15, 7},
	}
	for _, tt := range tests {
		p := baseParams()
		p.Clusters, p.PointsPerCluster = tt.clusters, tt.points

		ds, err := Generate(p)
		require.NoError(t, err)
		assert.Len(t, ds.Clusters, tt.clusters)
		assert.Equal(t, tt.clusters*tt.points, ds.Len())
		assert.Len(t, ds.Points(), tt.clusters*tt.points)
	}
}

func TestGenerate_ClusterIDsReferToOwnCluster(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Clusters = 5
	ds, err := Generate(p)
	require.NoError(t, err)

	for i, c := range ds.Clusters {
		assert.Equal(t, i, c.ID)
		for _, pt := range c.Points {
			assert.Equal(t, c.ID, pt.ClusterID)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := Generate(baseParams())
	require.NoError(t, err)
	b, err := Generate(baseParams())
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different datasets (-first +second):\n%s", diff)
	}

	p := baseParams()
	p.Seed = seedPtr(43)
	c, err := Generate(p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Clusters[0].Center, c.Clusters[0].Center)
}

func TestGenerate_ClockSeedIsRecorded(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Seed = nil
	first, err := Generate(p)
	require.NoError(t, err)

	p.Seed = seedPtr(first.Seed)
	replay, err := Generate(p)
	require.NoError(t, err)

	if diff := cmp.Diff(first, replay); diff != "" {
		t.Errorf("replaying recorded seed differs (-first +replay):\n%s", diff)
	}
}

func TestGenerate_CentersWithinBounds(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Clusters = 200
	p.PointsPerCluster = 1
	p.Bounds = Bounds{MinX: -5, MinY: 100, MaxX: 5, MaxY: 101}

	ds, err := Generate(p)
	require.NoError(t, err)
	for _, c := range ds.Clusters {
		assert.True(t, p.Bounds.Contains(c.Center.X, c.Center.Y), "centre %+v outside %s", c.Center, p.Bounds)
	}
}

func TestGenerate_SpreadMatchesStdDev(t *testing.T) {
	t.Parallel()

	const sigma = 2.0
	p := Params{
		Clusters:         1,
		PointsPerCluster: 20000,
		Bounds:           Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		StdDev:           sigma,
		Seed:             seedPtr(7),
	}
	ds, err := Generate(p)
	require.NoError(t, err)

	c := ds.Clusters[0]
	var within int
	dx := make([]float64, len(c.Points))
	dy := make([]float64, len(c.Points))
	for i, pt := range c.Points {
		dx[i] = pt.X - c.Center.X
		dy[i] = pt.Y - c.Center.Y
		if math.Abs(dx[i]) <= 2*sigma {
			within++
		}
		if math.Abs(dy[i]) <= 2*sigma {
			within++
		}
	}

	frac := float64(within) / float64(2*len(c.Points))
	assert.InDelta(t, 0.954, frac, 0.015, "fraction of offsets within 2 sigma")
	assert.InDelta(t, 0, stat.Mean(dx, nil), 0.1)
	assert.InDelta(t, 0, stat.Mean(dy, nil), 0.1)
	assert.InDelta(t, sigma, stat.StdDev(dx, nil), 0.1)
	assert.InDelta(t, sigma, stat.StdDev(dy, nil), 0.1)
}

func TestGenerate_VariableSizes(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Clusters = 50
	p.PointsPerCluster = 5
	p.MaxPoints = 20
	p.MaxStdDev = 3

	ds, err := Generate(p)
	require.NoError(t, err)

	sizes := map[int]bool{}
	total := 0
	for _, c := range ds.Clusters {
		n := len(c.Points)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 20)
		assert.GreaterOrEqual(t, c.StdDev, 0.5)
		assert.LessOrEqual(t, c.StdDev, 3.0)
		sizes[n] = true
		total += n
	}
	assert.Greater(t, len(sizes), 1, "expected cluster sizes to vary")
	assert.Equal(t, total, ds.Len())
}

func TestGenerate_Integer(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Integer = true
	p.Bounds = Bounds{MinX: 1000, MinY: 1000, MaxX: 2000, MaxY: 2000}
	p.StdDev = 50

	ds, err := Generate(p)
	require.NoError(t, err)
	for _, c := range ds.Clusters {
		assert.Equal(t, math.Trunc(c.Center.X), c.Center.X)
		for _, pt := range c.Points {
			assert.Equal(t, math.Trunc(pt.X), pt.X)
			assert.Equal(t, math.Trunc(pt.Y), pt.Y)
		}
	}
}

func TestGenerate_IntegerCentersStayInBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bounds Bounds
	}{
		{"fractional positive", Bounds{MinX: 0.25, MinY: 0.25, MaxX: 1.75, MaxY: 1.75}},
		{"fractional negative", Bounds{MinX: -5.5, MinY: -5.5, MaxX: -1.5, MaxY: -1.5}},
		{"straddles zero", Bounds{MinX: -0.5, MinY: -2.5, MaxX: 0.5, MaxY: 2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			p.Integer = true
			p.Clusters = 50
			p.Bounds = tt.bounds

			ds, err := Generate(p)
			require.NoError(t, err)
			for _, c := range ds.Clusters {
				assert.True(t, tt.bounds.Contains(c.Center.X, c.Center.Y), "centre %+v outside %s", c.Center, tt.bounds)
				assert.Equal(t, math.Trunc(c.Center.X), c.Center.X)
				assert.Equal(t, math.Trunc(c.Center.Y), c.Center.Y)
			}
		})
	}
}

func TestGenerate_InvalidParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
		param  string
	}{
		{"zero clusters", func(p *Params) { p.Clusters = 0 }, "clusters"},
		{"negative clusters", func(p *Params) { p.Clusters = -3 }, "clusters"},
		{"zero points", func(p *Params) { p.PointsPerCluster = 0 }, "points"},
		{"negative std dev", func(p *Params) { p.StdDev = -1 }, "std-dev"},
		{"zero std dev", func(p *Params) { p.StdDev = 0 }, "std-dev"},
		{"NaN std dev", func(p *Params) { p.StdDev = math.NaN() }, "std-dev"},
		{"zero width bounds", func(p *Params) { p.Bounds = Bounds{MinX: 1, MinY: 0, MaxX: 1, MaxY: 10} }, "bounds"},
		{"zero height bounds", func(p *Params) { p.Bounds = Bounds{MinX: 0, MinY: 4, MaxX: 10, MaxY: 4} }, "bounds"},
		{"inverted bounds", func(p *Params) { p.Bounds = Bounds{MinX: 10, MinY: 0, MaxX: 0, MaxY: 10} }, "bounds"},
		{"infinite bounds", func(p *Params) { p.Bounds.MaxX = math.Inf(1) }, "bounds"},
		{"overflowing bounds", func(p *Params) { p.Bounds = Bounds{MinX: -1e308, MinY: -1e308, MaxX: 1e308, MaxY: 1e308} }, "bounds"},
		{"integer without whole numbers", func(p *Params) {
			p.Integer = true
			p.Bounds = Bounds{MinX: 0.25, MinY: 0.25, MaxX: 0.75, MaxY: 0.75}
		}, "integer"},
		{"max points below points", func(p *Params) { p.MaxPoints = 10 }, "max-points"},
		{"max std dev below std dev", func(p *Params) { p.MaxStdDev = 0.1 }, "max-std-dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)

			ds, err := Generate(p)
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.param, pe.Name)
			assert.Contains(t, err.Error(), tt.param)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	ds := &Dataset{Clusters: []Cluster{
		{ID: 0, Center: Coord{X: 1, Y: 1}, StdDev: 1, Points: []Point{{X: 0, Y: 0}, {X: 2, Y: 4}}},
		{ID: 1, Center: Coord{X: 5, Y: 5}, StdDev: 2, Points: []Point{{X: 5, Y: 6, ClusterID: 1}}},
		{ID: 2, Center: Coord{X: 9, Y: 9}, StdDev: 3},
	}}

	got := ds.Summarize()
	require.Len(t, got, 3)

	assert.Equal(t, 2, got[0].N)
	assert.Equal(t, Coord{X: 1, Y: 2}, got[0].SampleMean)
	assert.InDelta(t, math.Sqrt2, got[0].SampleStdDev.X, 1e-12)
	assert.InDelta(t, 2*math.Sqrt2, got[0].SampleStdDev.Y, 1e-12)

	assert.Equal(t, Coord{X: 5, Y: 6}, got[1].SampleMean)
	assert.Equal(t, Coord{}, got[1].SampleStdDev)

	assert.Equal(t, 0, got[2].N)
	assert.Equal(t, Coord{}, got[2].SampleMean)
}

func TestDataset_NilSafe(t *testing.T) {
	t.Parallel()

	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Points())
	assert.Nil(t, ds.Centroids())
	assert.Nil(t, ds.Summarize())
}
