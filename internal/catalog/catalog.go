package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"imf-reader/internal/imf"
	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
)

// Default timeout for catalog operations
const defaultTimeout = 5 * time.Second

// Catalog is a SQLite-backed index of recorded packages.
type Catalog struct {
	db      *sql.DB
	path    string
	log     *logging.Logger
	mu      sync.RWMutex
	stats   metrics.Stats
	statsMu sync.RWMutex
}

// New opens or creates the catalog database at path. The parent directory
// must already exist and be writable.
func New(ctx context.Context, path string, log *logging.Logger) (*Catalog, error) {
	log.Info("Catalog path: %s", path)

	if err := diagnosePermissions(path, log); err != nil {
		log.Warn("Catalog permission diagnostics: %v", err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", path)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close catalog after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{db: db, path: path, log: log}

	if err := c.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close catalog after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	if err := c.refreshStats(ctx); err != nil {
		log.Warn("Failed to load catalog stats: %v", err)
	}

	log.Info("Catalog initialized successfully at %s", path)
	return c, nil
}

func (c *Catalog) initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	CREATE TABLE IF NOT EXISTS packages (
		cpl_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		cpl_url TEXT NOT NULL,
		asset_map_path TEXT NOT NULL,
		edit_rate TEXT NOT NULL,
		duplicate_count INTEGER NOT NULL DEFAULT 0,
		recorded_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS assets (
		cpl_id TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		uri TEXT NOT NULL,
		length INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (cpl_id, position),
		FOREIGN KEY (cpl_id) REFERENCES packages(cpl_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_assets_asset_id ON assets(asset_id);
	`

	_, err = c.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file location.
func (c *Catalog) Path() string { return c.path }

// RecordPackage stores pkg and every Asset Map entry it lists, replacing any
// earlier record of the same CPL.
func (c *Catalog) RecordPackage(ctx context.Context, pkg *imf.Package) (err error) {
	composition := pkg.CPL()
	if composition == nil {
		return imf.ErrClosed
	}

	start := time.Now()
	defer func() { recordQuery("record_package", start, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
			}
		}
	}()

	cplID := composition.ID.String()

	if _, err = tx.ExecContext(ctx, `DELETE FROM assets WHERE cpl_id = ?`, cplID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO packages (cpl_id, title, cpl_url, asset_map_path, edit_rate, duplicate_count, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, strftime('%s', 'now'))
	ON CONFLICT(cpl_id) DO UPDATE SET
		title = excluded.title,
		cpl_url = excluded.cpl_url,
		asset_map_path = excluded.asset_map_path,
		edit_rate = excluded.edit_rate,
		duplicate_count = excluded.duplicate_count,
		recorded_at = excluded.recorded_at
	`,
		cplID,
		composition.ContentTitle,
		pkg.URL(),
		pkg.AssetMapPath(),
		composition.EditRate.String(),
		len(pkg.DuplicateAssets()),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assets (cpl_id, asset_id, position, uri, length) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	assets := pkg.Assets()
	for i, a := range assets {
		if _, err = stmt.ExecContext(ctx, cplID, a.UUID.String(), i, a.AbsoluteURI, int64(a.Length)); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	c.log.Debug("Catalog recorded CPL urn:uuid:%s with %d assets", cplID, len(assets))
	if statsErr := c.refreshStatsLocked(ctx); statsErr != nil {
		c.log.Warn("Failed to refresh catalog stats: %v", statsErr)
	}
	return nil
}

// FindAsset returns every recorded location of the asset id, oldest package
// record first. An unknown id yields an empty slice.
func (c *Catalog) FindAsset(ctx context.Context, id uuid.UUID) (_ []Location, err error) {
	start := time.Now()
	defer func() { recordQuery("find_asset", start, err) }()

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
	SELECT a.cpl_id, p.title, a.uri, a.length
	FROM assets a JOIN packages p ON p.cpl_id = a.cpl_id
	WHERE a.asset_id = ?
	ORDER BY p.recorded_at, a.cpl_id, a.position
	`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var cplID string
		var length int64
		loc := Location{AssetID: id}
		if err = rows.Scan(&cplID, &loc.CPLTitle, &loc.URI, &length); err != nil {
			return nil, err
		}
		if loc.CPLID, err = uuid.Parse(cplID); err != nil {
			return nil, fmt.Errorf("corrupt cpl_id %q: %w", cplID, err)
		}
		loc.Length = uint64(length)
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// ListPackages returns every recorded package ordered by title.
func (c *Catalog) ListPackages(ctx context.Context) (_ []PackageSummary, err error) {
	start := time.Now()
	defer func() { recordQuery("list_packages", start, err) }()

	c.mu.RLock()
	defer c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
	SELECT p.cpl_id, p.title, p.cpl_url, p.asset_map_path, p.edit_rate, p.duplicate_count, p.recorded_at,
		(SELECT COUNT(*) FROM assets a WHERE a.cpl_id = p.cpl_id)
	FROM packages p
	ORDER BY p.title COLLATE NOCASE, p.cpl_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := []PackageSummary{}
	for rows.Next() {
		var cplID string
		var recordedAt int64
		var s PackageSummary
		if err = rows.Scan(&cplID, &s.Title, &s.CPLURL, &s.AssetMapPath, &s.EditRate, &s.Duplicates, &recordedAt, &s.Assets); err != nil {
			return nil, err
		}
		if s.CPLID, err = uuid.Parse(cplID); err != nil {
			return nil, fmt.Errorf("corrupt cpl_id %q: %w", cplID, err)
		}
		s.RecordedAt = time.Unix(recordedAt, 0)
		packages = append(packages, s)
	}
	return packages, rows.Err()
}

// GetStats returns the package and asset counts as of the last write.
func (c *Catalog) GetStats() metrics.Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *Catalog) refreshStats(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshStatsLocked(ctx)
}

func (c *Catalog) refreshStatsLocked(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { recordQuery("stats", start, err) }()

	var stats metrics.Stats
	err = c.db.QueryRowContext(ctx, `
	SELECT (SELECT COUNT(*) FROM packages), (SELECT COUNT(*) FROM assets)
	`).Scan(&stats.TotalPackages, &stats.TotalAssets)
	if err != nil {
		return err
	}

	c.statsMu.Lock()
	c.stats = stats
	c.statsMu.Unlock()
	return nil
}

func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.CatalogQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.CatalogQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// diagnosePermissions logs why a catalog might fail to open for writing.
func diagnosePermissions(path string, log *logging.Logger) error {
	dir := filepath.Dir(path)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat catalog directory: %w", err)
	}
	log.Debug("Catalog directory: %s (mode: %v)", dir, dirInfo.Mode())

	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		log.Debug("Catalog file exists: %s (mode: %v, size: %d bytes)", p, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			log.Warn("Catalog file %s is read-only! Mode: %v", p, info.Mode())
		}
	}
	return nil
}
