package metrics

import (
	"time"

	"imf-reader/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	TotalPackages int
	TotalAssets   int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	log           *logging.Logger
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration, log *logging.Logger) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		log:           log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogPackagesTotal.Set(float64(stats.TotalPackages))
	CatalogAssetsTotal.Set(float64(stats.TotalAssets))

	c.log.Debug("Metrics collected: packages=%d, assets=%d", stats.TotalPackages, stats.TotalAssets)
}
