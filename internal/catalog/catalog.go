// Package catalog records generation runs in a SQLite database so a dataset
// can be traced back to the seed and parameters that produced it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/clustergen/internal/cluster"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Catalog is a handle on the run database.
type Catalog struct {
	db *sql.DB

	// now is overridable for tests.
	now func() time.Time
}

// Run is one recorded generation run.
type Run struct {
	ID        string
	Name      string
	Seed      int64
	CreatedAt time.Time

	Clusters         int
	PointsPerCluster int
	MaxPoints        int
	StdDev           float64
	MaxStdDev        float64
	Bounds           cluster.Bounds
	TotalPoints      int

	OutputPath    string
	CentroidsPath string
	PlotPath      string

	GroundTruth []GroundTruth
}

// GroundTruth is the generating centre, sigma and size of one cluster.
type GroundTruth struct {
	Index  int
	Center cluster.Coord
	StdDev float64
	N      int
}

// Outputs names the files a run produced. Empty paths were not written.
type Outputs struct {
	Points    string
	Centroids string
	Plot      string
}

// Open opens (creating if needed) the catalog at path and migrates it to the
// latest schema.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	// Pragmas are per connection; keep a single one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure catalog %s: %w", path, err)
	}

	c := &Catalog{db: db, now: time.Now}
	if err := c.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// NewRun builds a Run for ds generated from p. The id is a fresh UUID.
func NewRun(name string, p cluster.Params, ds *cluster.Dataset, out Outputs) *Run {
	r := &Run{
		ID:               uuid.New().String(),
		Name:             name,
		Seed:             ds.Seed,
		Clusters:         len(ds.Clusters),
		PointsPerCluster: p.PointsPerCluster,
		MaxPoints:        p.MaxPoints,
		StdDev:           p.StdDev,
		MaxStdDev:        p.MaxStdDev,
		Bounds:           ds.Bounds,
		TotalPoints:      ds.Len(),
		OutputPath:       out.Points,
		CentroidsPath:    out.Centroids,
		PlotPath:         out.Plot,
		GroundTruth:      make([]GroundTruth, len(ds.Clusters)),
	}
	for i, c := range ds.Clusters {
		r.GroundTruth[i] = GroundTruth{Index: c.ID, Center: c.Center, StdDev: c.StdDev, N: len(c.Points)}
	}
	return r
}

// Record stores r and its ground truth in one transaction. A zero CreatedAt
// is set to the current time.
func (c *Catalog) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = c.now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, name, seed, created_unix_nanos, clusters, points_per_cluster,
			max_points, std_dev, max_std_dev, min_x, min_y, max_x, max_y,
			total_points, output_path, centroids_path, plot_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Seed, r.CreatedAt.UnixNano(), r.Clusters, r.PointsPerCluster,
		r.MaxPoints, r.StdDev, r.MaxStdDev, r.Bounds.MinX, r.Bounds.MinY, r.Bounds.MaxX, r.Bounds.MaxY,
		r.TotalPoints, r.OutputPath, r.CentroidsPath, r.PlotPath,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}

	for _, g := range r.GroundTruth {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_clusters (run_id, cluster_index, center_x, center_y, std_dev, point_count)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, g.Index, g.Center.X, g.Center.Y, g.StdDev, g.N,
		)
		if err != nil {
			return fmt.Errorf("insert cluster %d of run %s: %w", g.Index, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", r.ID, err)
	}
	return nil
}

const runColumns = `run_id, name, seed, created_unix_nanos, clusters, points_per_cluster,
	max_points, std_dev, max_std_dev, min_x, min_y, max_x, max_y,
	total_points, output_path, centroids_path, plot_path`

// GetRun loads a run and its ground truth.
func (c *Catalog) GetRun(ctx context.Context, id string) (*Run, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT cluster_index, center_x, center_y, std_dev, point_count
		FROM run_clusters WHERE run_id = ? ORDER BY cluster_index`, id)
	if err != nil {
		return nil, fmt.Errorf("get clusters of run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var g GroundTruth
		if err := rows.Scan(&g.Index, &g.Center.X, &g.Center.Y, &g.StdDev, &g.N); err != nil {
			return nil, fmt.Errorf("scan cluster of run %s: %w", id, err)
		}
		r.GroundTruth = append(r.GroundTruth, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first, without ground truth.
// A limit of zero or less returns every run.
func (c *Catalog) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_unix_nanos DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var created int64
	err := s.Scan(
		&r.ID, &r.Name, &r.Seed, &created, &r.Clusters, &r.PointsPerCluster,
		&r.MaxPoints, &r.StdDev, &r.MaxStdDev, &r.Bounds.MinX, &r.Bounds.MinY, &r.Bounds.MaxX, &r.Bounds.MaxY,
		&r.TotalPoints, &r.OutputPath, &r.CentroidsPath, &r.PlotPath,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, created)
	return &r, nil
}
