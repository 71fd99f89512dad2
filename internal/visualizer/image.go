//go:build !noplot
// +build !noplot

package visualizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/fsutil"
)

// maxLegendEntries caps the legend; beyond it colours alone identify clusters.
const maxLegendEntries = 20

// ImagePlotter saves a static scatter plot with gonum/plot. The image format
// follows the file extension (png, svg, pdf, ...).
type ImagePlotter struct {
	FS   fsutil.FileSystem
	Path string

	// Width and Height default to 8x8 inches.
	Width  vg.Length
	Height vg.Length
}

// Plot draws every cluster in its own colour with centroids as red crosses.
func (p *ImagePlotter) Plot(ds *cluster.Dataset) error {
	if ds.Len() == 0 {
		return errors.New("nothing to plot: dataset is empty")
	}

	pl := plot.New()
	pl.Title.Text = Title(ds)
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	colors := generateColors(len(ds.Clusters))
	for i, c := range ds.Clusters {
		if len(c.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(c.Points))
		for j, pt := range c.Points {
			pts[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("cluster %d: %w", c.ID, err)
		}
		sc.GlyphStyle.Color = colors[i]
		sc.GlyphStyle.Radius = vg.Points(1)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Add(sc)
		if len(ds.Clusters) <= maxLegendEntries {
			pl.Legend.Add(fmt.Sprintf("cluster %d", c.ID), sc)
		}
	}

	centers := make(plotter.XYs, len(ds.Clusters))
	for i, c := range ds.Clusters {
		centers[i] = plotter.XY{X: c.Center.X, Y: c.Center.Y}
	}
	cs, err := plotter.NewScatter(centers)
	if err != nil {
		return fmt.Errorf("centroids: %w", err)
	}
	cs.GlyphStyle.Color = centroidColor
	cs.GlyphStyle.Radius = vg.Points(4)
	cs.GlyphStyle.Shape = draw.CrossGlyph{}
	pl.Add(cs)
	pl.Legend.Add("centroids", cs)

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	width, height := p.Width, p.Height
	if width == 0 {
		width = 8 * vg.Inch
	}
	if height == 0 {
		height = 8 * vg.Inch
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.Path), "."))
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	fsys := p.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsutil.EnsureParent(fsys, p.Path); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := fsys.Create(p.Path)
	if err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save plot: %w", err)
	}
	return f.Close()
}
