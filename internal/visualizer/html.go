//go:build !noplot
// +build !noplot

package visualizer

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/fsutil"
)

// HTMLPlotter writes an interactive go-echarts scatter chart.
type HTMLPlotter struct {
	FS   fsutil.FileSystem
	Path string

	// AssetsHost overrides where the echarts JavaScript is loaded from.
	AssetsHost string
}

// Plot renders one series per cluster plus a centroid series.
func (p *HTMLPlotter) Plot(ds *cluster.Dataset) error {
	if ds.Len() == 0 {
		return errors.New("nothing to plot: dataset is empty")
	}

	minX, minY, maxX, maxY := extent(ds)
	// Pad so points at the edges stay visible.
	padX := (maxX - minX) * 0.05
	padY := (maxY - minY) * 0.05
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}

	init := opts.Initialization{PageTitle: Title(ds), Width: "900px", Height: "900px"}
	if p.AssetsHost != "" {
		init.AssetsHost = p.AssetsHost
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: Title(ds), Subtitle: fmt.Sprintf("seed=%d points=%d", ds.Seed, ds.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(ds.Clusters) <= maxLegendEntries)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX - padX, Max: maxX + padX, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY - padY, Max: maxY + padY, Name: "y", NameLocation: "middle", NameGap: 30}),
	)

	colors := generateColors(len(ds.Clusters))
	for i, c := range ds.Clusters {
		data := make([]opts.ScatterData, 0, len(c.Points))
		for _, pt := range c.Points {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.X, pt.Y}})
		}
		scatter.AddSeries(fmt.Sprintf("cluster %d", c.ID), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i])}),
		)
	}

	centers := make([]opts.ScatterData, 0, len(ds.Clusters))
	for _, c := range ds.Clusters {
		centers = append(centers, opts.ScatterData{
			Name:  fmt.Sprintf("cluster %d centre (sigma=%.3g)", c.ID, c.StdDev),
			Value: []interface{}{c.Center.X, c.Center.Y},
		})
	}
	scatter.AddSeries("centroids", centers,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(centroidColor)}),
	)

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fsys := p.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsutil.EnsureParent(fsys, p.Path); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := fsys.WriteFile(p.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// extent returns the bounding box of every point and centre in ds.
func extent(ds *cluster.Dataset) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, c := range ds.Clusters {
		grow(c.Center.X, c.Center.Y)
		for _, pt := range c.Points {
			grow(pt.X, pt.Y)
		}
	}
	return minX, minY, maxX, maxY
}
