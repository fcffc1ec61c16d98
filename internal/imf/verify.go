package imf

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"imf-reader/internal/imferr"
	"imf-reader/internal/metrics"
	"imf-reader/internal/workers"
)

// maxVerifyWorkers caps verification concurrency regardless of CPU count.
const maxVerifyWorkers = 64

// ResolvedAsset pairs a CPL-referenced asset with its location.
type ResolvedAsset struct {
	UUID uuid.UUID `json:"uuid"`
	URI  string    `json:"uri"`
}

// Resolve looks up every track file the CPL references, in order of first
// reference. The first unresolvable UUID fails the call with an error
// wrapping imferr.ErrNotFound that names it.
func (p *Package) Resolve() ([]ResolvedAsset, error) {
	if p == nil || p.closed {
		return nil, ErrClosed
	}
	ids := p.cpl.ReferencedAssets()
	out := make([]ResolvedAsset, 0, len(ids))
	for _, id := range ids {
		uri, err := p.ResolveURI(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedAsset{UUID: id, URI: uri})
	}
	return out, nil
}

// AssetStatus is the outcome of verifying one asset.
type AssetStatus string

const (
	StatusOK           AssetStatus = "ok"
	StatusMissing      AssetStatus = "missing"
	StatusUnreachable  AssetStatus = "unreachable"
	StatusSizeMismatch AssetStatus = "size_mismatch"
)

// VerifyResult describes one CPL-referenced asset.
type VerifyResult struct {
	UUID     uuid.UUID   `json:"uuid"`
	URI      string      `json:"uri,omitempty"`
	Status   AssetStatus `json:"status"`
	Size     int64       `json:"size"`
	Expected uint64      `json:"expected,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// VerifyReport summarises a verification run. Results follow the CPL's
// order of first reference.
type VerifyReport struct {
	CPLID    uuid.UUID      `json:"cpl_id"`
	Workers  int            `json:"workers"`
	Duration time.Duration  `json:"duration_ns"`
	Counts   map[string]int `json:"counts"`
	Results  []VerifyResult `json:"results"`
}

// Healthy reports whether every asset verified ok.
func (r *VerifyReport) Healthy() bool {
	return r != nil && r.Counts[string(StatusOK)] == len(r.Results)
}

type indexedResult struct {
	index  int
	result VerifyResult
}

// Verify checks that every CPL-referenced asset is listed in the Asset Map
// and reachable through the transport. Stat calls run on up to
// workerCount goroutines; zero sizes the pool from the CPU count. Only
// cancellation of ctx fails the call; per-asset problems are reported in
// the results.
func (p *Package) Verify(ctx context.Context, workerCount int) (*VerifyReport, error) {
	if p == nil || p.closed {
		return nil, ErrClosed
	}
	start := time.Now()
	metrics.VerifyRunsTotal.Inc()

	n := workers.Resolve(workerCount, maxVerifyWorkers)
	metrics.VerifyWorkers.Set(float64(n))

	ids := p.cpl.ReferencedAssets()
	results := make([]VerifyResult, len(ids))

	collected := make(chan indexedResult, n)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range collected {
			results[r.index] = r.result
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)

	for i, id := range ids {
		loc, err := p.assets.Locate(id)
		if err != nil {
			collected <- indexedResult{i, VerifyResult{UUID: id, Status: StatusMissing, Error: err.Error()}}
			continue
		}

		g.Go(func() error {
			res := VerifyResult{UUID: id, URI: loc.AbsoluteURI, Expected: loc.Length, Size: -1}

			info, err := p.opener.Stat(gctx, loc.AbsoluteURI, p.transport)
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				res.Status = StatusUnreachable
				res.Error = err.Error()
			case loc.Length > 0 && info.Size >= 0 && uint64(info.Size) != loc.Length:
				res.Status = StatusSizeMismatch
				res.Size = info.Size
			default:
				res.Status = StatusOK
				res.Size = info.Size
			}

			p.log.Debug("imf: verify urn:uuid:%s %s: %s", id, loc.AbsoluteURI, res.Status)
			collected <- indexedResult{i, res}
			return nil
		})
	}

	err := g.Wait()
	close(collected)
	<-done

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, imferr.IO("verify", err)
	}

	report := &VerifyReport{
		CPLID:    p.cpl.ID,
		Workers:  n,
		Duration: time.Since(start),
		Counts:   make(map[string]int),
		Results:  results,
	}
	for _, r := range results {
		report.Counts[string(r.Status)]++
		metrics.VerifyAssetsTotal.WithLabelValues(string(r.Status)).Inc()
	}
	metrics.VerifyDuration.Observe(report.Duration.Seconds())

	p.log.Info("imf: verified %d assets with %d workers in %v: %v", len(results), n, report.Duration, report.Counts)
	return report, nil
}
