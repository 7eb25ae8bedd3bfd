package monitor

import (
	"time"

	"grocery-deal-finder/config"
	"grocery-deal-finder/models"
	"grocery-deal-finder/notify"
	"grocery-deal-finder/services"
	"grocery-deal-finder/storage"
	"grocery-deal-finder/utils"
)

// Source produces one snapshot of coupons and sales.
type Source interface {
	Scrape() (map[string]models.CouponRecord, map[string]models.SaleRecord, error)
}

// Monitor runs the scrape-match-persist-notify cycle on a schedule.
type Monitor struct {
	cfg       *config.Config
	logger    *utils.Logger
	source    Source
	pipeline  *services.Pipeline
	report    *services.ReportService
	history   storage.HistoryReader
	writers   []storage.DealWriter
	notifiers []notify.Notifier
}

func New(
	cfg *config.Config,
	logger *utils.Logger,
	source Source,
	pipeline *services.Pipeline,
	report *services.ReportService,
	history storage.HistoryReader,
	writers []storage.DealWriter,
	notifiers []notify.Notifier,
) *Monitor {
	return &Monitor{
		cfg:       cfg,
		logger:    logger,
		source:    source,
		pipeline:  pipeline,
		report:    report,
		history:   history,
		writers:   writers,
		notifiers: notifiers,
	}
}

// Start runs one check immediately, then repeats on the configured
// interval until stop is closed.
func (m *Monitor) Start(stop <-chan struct{}) {
	m.logger.Info("[monitor] Checking every %v", m.cfg.CheckInterval)

	if err := m.RunOnce(); err != nil {
		m.logger.Error("[monitor] Check failed: %v", err)
	}

	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.RunOnce(); err != nil {
				m.logger.Error("[monitor] Check failed: %v", err)
			}
		case <-stop:
			m.logger.Info("[monitor] Stopping")
			return
		}
	}
}

// RunOnce performs a single full cycle. Persistence and notification
// failures are logged but do not abort the cycle; a scrape failure does.
func (m *Monitor) RunOnce() error {
	started := time.Now()
	m.logger.Info("[monitor] Cycle starting")

	coupons, sales, err := m.source.Scrape()
	if err != nil {
		return err
	}

	history, err := m.history.FetchHistory()
	if err != nil {
		m.logger.Warn("[monitor] History unavailable, treating every deal as new: %v", err)
		history = nil
	}

	result := m.pipeline.Run(coupons, sales, history, time.Now())

	for _, w := range m.writers {
		if err := w.Append(result.AllDeals); err != nil {
			m.logger.Error("[monitor] Persist failed: %v", err)
		}
	}

	if len(result.NewDeals) > 0 {
		for _, n := range m.notifiers {
			if err := n.Send(result.NewDeals); err != nil {
				m.logger.Error("[monitor] Notify failed: %v", err)
			}
		}
	} else {
		m.logger.Info("[monitor] No new deals, nothing to send")
	}

	summary := m.report.Generate(result)
	m.report.Print(summary, result)

	m.logger.Info("[monitor] Cycle done in %v", time.Since(started).Round(time.Millisecond))
	return nil
}
