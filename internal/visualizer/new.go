//go:build !noplot
// +build !noplot

package visualizer

import "github.com/banshee-data/clustergen/internal/fsutil"

// Available reports whether plotting support is compiled in.
func Available() bool { return true }

// New returns the Plotter for path, chosen by its extension. A nil fsys
// means the OS filesystem.
func New(path string, fsys fsutil.FileSystem) (Plotter, error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	kind, err := kindFor(path)
	if err != nil {
		return nil, err
	}
	if kind == "html" {
		return &HTMLPlotter{FS: fsys, Path: path}, nil
	}
	return &ImagePlotter{FS: fsys, Path: path}, nil
}
