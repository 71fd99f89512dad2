package cluster

import "gonum.org/v1/gonum/stat"

// ClusterSummary compares a cluster's generating parameters with the
// statistics of the points actually drawn for it.
type ClusterSummary struct {
	ID     int
	Center Coord
	StdDev float64
	N      int

	SampleMean   Coord
	SampleStdDev Coord
}

// Summarize returns one ClusterSummary per cluster, in cluster order.
func (d *Dataset) Summarize() []ClusterSummary {
	if d == nil {
		return nil
	}
	out := make([]ClusterSummary, len(d.Clusters))
	for i, c := range d.Clusters {
		xs := make([]float64, len(c.Points))
		ys := make([]float64, len(c.Points))
		for j, p := range c.Points {
			xs[j], ys[j] = p.X, p.Y
		}

		s := ClusterSummary{ID: c.ID, Center: c.Center, StdDev: c.StdDev, N: len(c.Points)}
		if len(xs) > 0 {
			s.SampleMean = Coord{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
		}
		// Sample standard deviation is undefined below two points.
		if len(xs) > 1 {
			s.SampleStdDev = Coord{X: stat.StdDev(xs, nil), Y: stat.StdDev(ys, nil)}
		}
		out[i] = s
	}
	return out
}
