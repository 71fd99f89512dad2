// Package export serialises generated datasets to plain-text files.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/fsutil"
)

// IOError reports a failure to write an output file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Writer writes point and centroid files. A nil FS means the OS filesystem.
// Note the zero Precision rounds to whole numbers; NewWriter sets -1.
type Writer struct {
	FS fsutil.FileSystem

	// Format is Space or Comma. Empty means Space.
	Format string
	// Labels appends the cluster id as a third column.
	Labels bool
	// Header writes a column-name row first.
	Header bool
	// Precision is the number of decimals; negative means the shortest
	// representation that round-trips.
	Precision int
}

// NewWriter returns a Writer on the OS filesystem with shortest formatting.
func NewWriter() *Writer {
	return &Writer{FS: fsutil.OSFileSystem{}, Format: Space, Precision: -1}
}

// WritePoints writes one line per point of ds to path, creating or
// truncating it. Nothing is written when ds is empty or the format is
// unknown.
func (w *Writer) WritePoints(ds *cluster.Dataset, path string) error {
	if ds.Len() == 0 {
		return &cluster.ParamError{Name: "dataset", Reason: "no points to write"}
	}
	rows := make([]row, 0, ds.Len())
	for _, c := range ds.Clusters {
		for _, p := range c.Points {
			rows = append(rows, row{x: p.X, y: p.Y, label: p.ClusterID})
		}
	}
	return w.write(path, "cluster", rows)
}

// WriteCentroids writes the generating centre of every cluster to path,
// one per line, in the same layout as WritePoints.
func (w *Writer) WriteCentroids(ds *cluster.Dataset, path string) error {
	if ds == nil || len(ds.Clusters) == 0 {
		return &cluster.ParamError{Name: "dataset", Reason: "no clusters to write"}
	}
	rows := make([]row, len(ds.Clusters))
	for i, c := range ds.Clusters {
		rows[i] = row{x: c.Center.X, y: c.Center.Y, label: c.ID}
	}
	return w.write(path, "cluster", rows)
}

type row struct {
	x, y  float64
	label int
}

func (w *Writer) write(path, labelName string, rows []row) error {
	format := w.Format
	if format == "" {
		format = Space
	}
	if !IsValidFormat(format) {
		return &cluster.ParamError{Name: "format", Reason: fmt.Sprintf("unknown format %q (valid: %s)", format, GetValidFormatsString())}
	}
	if path == "" {
		return &cluster.ParamError{Name: "output", Reason: "path is empty"}
	}

	data := w.render(separator(format), labelName, rows)

	fsys := w.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsutil.EnsureParent(fsys, path); err != nil {
		return &IOError{Op: "mkdir", Path: path, Err: err}
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (w *Writer) render(sep, labelName string, rows []row) []byte {
	var buf bytes.Buffer
	if w.Header {
		buf.WriteString("x")
		buf.WriteString(sep)
		buf.WriteString("y")
		if w.Labels {
			buf.WriteString(sep)
			buf.WriteString(labelName)
		}
		buf.WriteByte('\n')
	}

	num := make([]byte, 0, 32)
	for _, r := range rows {
		num = w.appendFloat(num[:0], r.x)
		buf.Write(num)
		buf.WriteString(sep)
		num = w.appendFloat(num[:0], r.y)
		buf.Write(num)
		if w.Labels {
			buf.WriteString(sep)
			buf.WriteString(strconv.Itoa(r.label))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func (w *Writer) appendFloat(dst []byte, v float64) []byte {
	if w.Precision < 0 {
		return strconv.AppendFloat(dst, v, 'g', -1, 64)
	}
	return strconv.AppendFloat(dst, v, 'f', w.Precision, 64)
}
