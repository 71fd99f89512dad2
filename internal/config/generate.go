// Package config loads generation parameters from JSON or YAML files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/clustergen/internal/cluster"
	"github.com/banshee-data/clustergen/internal/export"
)

// DefaultConfigPath is the checked-in file mirroring the built-in defaults.
const DefaultConfigPath = "config/clustergen.defaults.json"

// Built-in defaults, used by the Get* accessors when a field is unset.
const (
	DefaultClusters   = 3
	DefaultPoints     = 100
	DefaultStdDev     = 1.0
	DefaultBounds     = "0,0,10,10"
	DefaultOutput     = "points.txt"
	DefaultFormat     = export.Space
	DefaultPrecision  = -1
	DefaultPlotOutput = "clusters.png"
)

// maxPrecision is the most decimals that carry information for a float64.
const maxPrecision = 17

// GenConfig holds every setting for one run. Nil fields fall back to the
// defaults above, so partial files are safe. The same keys are accepted
// in JSON and YAML.
type GenConfig struct {
	// Sampler
	Clusters  *int     `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Points    *int     `json:"points,omitempty" yaml:"points,omitempty"`
	MaxPoints *int     `json:"max_points,omitempty" yaml:"max_points,omitempty"`
	StdDev    *float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	MaxStdDev *float64 `json:"max_std_dev,omitempty" yaml:"max_std_dev,omitempty"`
	Bounds    *string  `json:"bounds,omitempty" yaml:"bounds,omitempty"` // "xmin,ymin,xmax,ymax"
	Seed      *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Integer   *bool    `json:"integer,omitempty" yaml:"integer,omitempty"`

	// Writer
	Output    *string `json:"output,omitempty" yaml:"output,omitempty"`
	Centroids *string `json:"centroids,omitempty" yaml:"centroids,omitempty"`
	Format    *string `json:"format,omitempty" yaml:"format,omitempty"`
	Labels    *bool   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Header    *bool   `json:"header,omitempty" yaml:"header,omitempty"`
	Precision *int    `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Visualizer
	Plot       *bool   `json:"plot,omitempty" yaml:"plot,omitempty"`
	PlotOutput *string `json:"plot_output,omitempty" yaml:"plot_output,omitempty"`

	// Catalog
	DB   *string `json:"db,omitempty" yaml:"db,omitempty"`
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Helper functions to create pointers
func PtrFloat64(v float64) *float64 { return &v }
func PtrBool(v bool) *bool          { return &v }
func PtrString(v string) *string    { return &v }
func PtrInt(v int) *int             { return &v }
func PtrInt64(v int64) *int64       { return &v }

// EmptyGenConfig returns a GenConfig with all fields set to nil.
func EmptyGenConfig() *GenConfig {
	return &GenConfig{}
}

// LoadGenConfig loads a GenConfig from a .json, .yaml or .yml file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadGenConfig(path string) (*GenConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyGenConfig()
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.validateFields(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Overlay copies every non-nil field of src onto c. Command-line flags use it
// to take precedence over a config file.
func (c *GenConfig) Overlay(src *GenConfig) {
	if src == nil {
		return
	}
	if src.Clusters != nil {
		c.Clusters = src.Clusters
	}
	if src.Points != nil {
		c.Points = src.Points
	}
	if src.MaxPoints != nil {
		c.MaxPoints = src.MaxPoints
	}
	if src.StdDev != nil {
		c.StdDev = src.StdDev
	}
	if src.MaxStdDev != nil {
		c.MaxStdDev = src.MaxStdDev
	}
	if src.Bounds != nil {
		c.Bounds = src.Bounds
	}
	if src.Seed != nil {
		c.Seed = src.Seed
	}
	if src.Integer != nil {
		c.Integer = src.Integer
	}
	if src.Output != nil {
		c.Output = src.Output
	}
	if src.Centroids != nil {
		c.Centroids = src.Centroids
	}
	if src.Format != nil {
		c.Format = src.Format
	}
	if src.Labels != nil {
		c.Labels = src.Labels
	}
	if src.Header != nil {
		c.Header = src.Header
	}
	if src.Precision != nil {
		c.Precision = src.Precision
	}
	if src.Plot != nil {
		c.Plot = src.Plot
	}
	if src.PlotOutput != nil {
		c.PlotOutput = src.PlotOutput
	}
	if src.DB != nil {
		c.DB = src.DB
	}
	if src.Name != nil {
		c.Name = src.Name
	}
}

// Validate checks the effective configuration: each field on its own, then
// that no two output files share a path. Call it after flags have been
// overlaid; cross-field sampler checks happen in Params.
// Errors wrap cluster.ErrInvalidParameter and name the offending key.
func (c *GenConfig) Validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}
	return c.validateOutputs()
}

// validateOutputs rejects a centroid or plot file that would overwrite the
// point file or each other.
func (c *GenConfig) validateOutputs() error {
	points := samePathKey(c.GetOutput())
	centroids := c.GetCentroids()
	if centroids != "" && samePathKey(centroids) == points {
		return &cluster.ParamError{Name: "centroids", Reason: fmt.Sprintf("must differ from output %q", c.GetOutput())}
	}
	if !c.GetPlot() {
		return nil
	}
	plot := samePathKey(c.GetPlotOutput())
	if plot == points {
		return &cluster.ParamError{Name: "plot-output", Reason: fmt.Sprintf("must differ from output %q", c.GetOutput())}
	}
	if centroids != "" && plot == samePathKey(centroids) {
		return &cluster.ParamError{Name: "plot-output", Reason: fmt.Sprintf("must differ from centroids %q", centroids)}
	}
	return nil
}

// samePathKey normalises path so two spellings of one file compare equal.
func samePathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// validateFields checks each field that is set on its own.
func (c *GenConfig) validateFields() error {
	if c.Format != nil && !export.IsValidFormat(*c.Format) {
		return &cluster.ParamError{Name: "format", Reason: fmt.Sprintf("must be one of %s, got %q", export.GetValidFormatsString(), *c.Format)}
	}
	if c.Precision != nil && *c.Precision > maxPrecision {
		return &cluster.ParamError{Name: "precision", Reason: fmt.Sprintf("must be at most %d, got %d", maxPrecision, *c.Precision)}
	}
	if c.Output != nil && *c.Output == "" {
		return &cluster.ParamError{Name: "output", Reason: "must not be empty"}
	}
	if c.Bounds != nil {
		if _, err := cluster.ParseBounds(*c.Bounds); err != nil {
			return err
		}
	}
	return nil
}

// Params builds and validates the sampler parameters.
func (c *GenConfig) Params() (cluster.Params, error) {
	bounds, err := cluster.ParseBounds(c.GetBounds())
	if err != nil {
		return cluster.Params{}, err
	}
	p := cluster.Params{
		Clusters:         c.GetClusters(),
		PointsPerCluster: c.GetPoints(),
		MaxPoints:        c.GetMaxPoints(),
		Bounds:           bounds,
		StdDev:           c.GetStdDev(),
		MaxStdDev:        c.GetMaxStdDev(),
		Seed:             c.Seed,
		Integer:          c.GetInteger(),
	}
	if err := p.Validate(); err != nil {
		return cluster.Params{}, err
	}
	return p, nil
}

// Writer returns an export.Writer configured from c.
func (c *GenConfig) Writer() *export.Writer {
	w := export.NewWriter()
	w.Format = c.GetFormat()
	w.Labels = c.GetLabels()
	w.Header = c.GetHeader()
	w.Precision = c.GetPrecision()
	return w
}

// GetClusters returns the clusters value or the default.
func (c *GenConfig) GetClusters() int {
	if c.Clusters == nil {
		return DefaultClusters
	}
	return *c.Clusters
}

// GetPoints returns the points-per-cluster value or the default.
func (c *GenConfig) GetPoints() int {
	if c.Points == nil {
		return DefaultPoints
	}
	return *c.Points
}

// GetMaxPoints returns max_points, zero (uniform sizes) when unset.
func (c *GenConfig) GetMaxPoints() int {
	if c.MaxPoints == nil {
		return 0
	}
	return *c.MaxPoints
}

// GetStdDev returns the std_dev value or the default.
func (c *GenConfig) GetStdDev() float64 {
	if c.StdDev == nil {
		return DefaultStdDev
	}
	return *c.StdDev
}

// GetMaxStdDev returns max_std_dev, zero (fixed sigma) when unset.
func (c *GenConfig) GetMaxStdDev() float64 {
	if c.MaxStdDev == nil {
		return 0
	}
	return *c.MaxStdDev
}

// GetBounds returns the bounds string or the default.
func (c *GenConfig) GetBounds() string {
	if c.Bounds == nil {
		return DefaultBounds
	}
	return *c.Bounds
}

func (c *GenConfig) GetInteger() bool {
	return c.Integer != nil && *c.Integer
}

// GetOutput returns the point file path or the default.
func (c *GenConfig) GetOutput() string {
	if c.Output == nil {
		return DefaultOutput
	}
	return *c.Output
}

// GetCentroids returns the centroid file path; empty means none.
func (c *GenConfig) GetCentroids() string {
	if c.Centroids == nil {
		return ""
	}
	return *c.Centroids
}

// GetFormat returns the column format or the default.
func (c *GenConfig) GetFormat() string {
	if c.Format == nil {
		return DefaultFormat
	}
	return *c.Format
}

func (c *GenConfig) GetLabels() bool {
	return c.Labels != nil && *c.Labels
}

func (c *GenConfig) GetHeader() bool {
	return c.Header != nil && *c.Header
}

// GetPrecision returns the decimal precision; negative means shortest.
func (c *GenConfig) GetPrecision() int {
	if c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}

func (c *GenConfig) GetPlot() bool {
	return c.Plot != nil && *c.Plot
}

// GetPlotOutput returns the plot path or the default.
func (c *GenConfig) GetPlotOutput() string {
	if c.PlotOutput == nil || *c.PlotOutput == "" {
		return DefaultPlotOutput
	}
	return *c.PlotOutput
}

// GetDB returns the catalog path; empty disables the catalog.
func (c *GenConfig) GetDB() string {
	if c.DB == nil {
		return ""
	}
	return *c.DB
}

func (c *GenConfig) GetName() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}
