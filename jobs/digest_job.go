package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/models"
	"github.com/meetpanchal/ipo-gmp-bot/services"
	"github.com/meetpanchal/ipo-gmp-bot/shared"
	"github.com/meetpanchal/ipo-gmp-bot/storage"
)

// DigestJob runs the full pipeline once: fetch the GMP table, extract
// and filter listings, compose the digest, and deliver it unless an
// identical digest was already sent. The job holds no state between
// runs beyond the fingerprint file.
type DigestJob struct {
	provider    services.PageProvider
	notifier    services.Notifier
	state       *storage.StateStore
	extractor   *services.ListingExtractor
	composer    *services.MessageComposer
	eligibility services.EligibilityOptions
	tiers       services.TierParams
	metrics     *shared.ServiceMetrics
}

// NewDigestJob wires the pipeline stages into a runnable job
func NewDigestJob(
	provider services.PageProvider,
	notifier services.Notifier,
	state *storage.StateStore,
	extractor *services.ListingExtractor,
	composer *services.MessageComposer,
	eligibility services.EligibilityOptions,
	tiers services.TierParams,
) *DigestJob {
	return &DigestJob{
		provider:    provider,
		notifier:    notifier,
		state:       state,
		extractor:   extractor,
		composer:    composer,
		eligibility: eligibility,
		tiers:       tiers,
		metrics:     shared.NewServiceMetrics("DigestJob"),
	}
}

// Run executes one digest cycle. A fetch or delivery failure returns
// an error and leaves the persisted fingerprint untouched, so the next
// run retries the send.
func (j *DigestJob) Run(ctx context.Context) error {
	startTime := time.Now()
	runID := uuid.New().String()
	logger := logrus.WithFields(logrus.Fields{
		"component": "DigestJob",
		"run_id":    runID,
		"notifier":  j.notifier.Name(),
	})

	logger.Info("Starting digest run")

	digest, err := j.build(ctx, startTime)
	if err != nil {
		j.metrics.RecordRequest(false, time.Since(startTime))
		logger.WithError(err).Error("Digest run failed")
		return err
	}

	if digest.Suppressed {
		j.metrics.IncrementCounter("runs_suppressed")
		j.metrics.RecordRequest(true, time.Since(startTime))
		logger.WithFields(logrus.Fields{
			"eligible":    len(digest.Eligible),
			"fingerprint": digest.Fingerprint,
			"duration":    time.Since(startTime),
		}).Info("Digest unchanged since last send, suppressing")
		return nil
	}

	if err := j.notifier.Send(ctx, digest.Message); err != nil {
		j.metrics.IncrementCounter("sends_failed")
		j.metrics.RecordRequest(false, time.Since(startTime))
		logger.WithError(err).Error("Digest delivery failed, fingerprint not persisted")
		return err
	}
	j.metrics.IncrementCounter("sends_delivered")

	// Persist only after the send is confirmed. An unsent digest must
	// never suppress a future run.
	if err := j.state.SaveFingerprint(digest.Fingerprint); err != nil {
		j.metrics.RecordRequest(false, time.Since(startTime))
		logger.WithError(err).Error("Digest delivered but fingerprint persistence failed; next run may resend")
		return err
	}

	j.metrics.RecordRequest(true, time.Since(startTime))
	logger.WithFields(logrus.Fields{
		"total_rows": digest.Report.TotalRows,
		"extracted":  digest.Report.Extracted,
		"skipped":    digest.Report.Skipped,
		"eligible":   len(digest.Eligible),
		"duration":   time.Since(startTime),
	}).Info("Digest run completed")

	return nil
}

// Preview runs the pipeline without sending or persisting anything,
// returning the digest that a real run would produce right now.
func (j *DigestJob) Preview(ctx context.Context) (*models.Digest, error) {
	return j.build(ctx, time.Now())
}

// Metrics exposes the job's counters
func (j *DigestJob) Metrics() *shared.ServiceMetrics {
	return j.metrics
}

func (j *DigestJob) build(ctx context.Context, now time.Time) (*models.Digest, error) {
	grid, err := j.provider.FetchTable(ctx)
	if err != nil {
		return nil, err
	}

	records, report := j.extractor.ExtractAll(grid, now)
	if report.TotalRows > 0 && report.Extracted == 0 {
		// Every row failing at once points at a source layout change
		// rather than a few dirty rows.
		logrus.WithFields(logrus.Fields{
			"component":  "DigestJob",
			"total_rows": report.TotalRows,
		}).Warn("All table rows were skipped, source layout may have changed")
	}

	eligible := services.FilterEligible(records, now, j.eligibility)
	message := j.composer.Compose(eligible)
	fingerprint := services.Fingerprint(eligible, j.tiers)

	prior, err := j.state.LoadFingerprint()
	if err != nil {
		// Unreadable state must not block delivery; worst case is one
		// duplicate digest.
		logrus.WithFields(logrus.Fields{
			"component": "DigestJob",
			"error":     err.Error(),
		}).Warn("Could not load prior fingerprint, assuming first run")
		prior = ""
	}

	return &models.Digest{
		Records:     records,
		Eligible:    eligible,
		Message:     message,
		Report:      report,
		Fingerprint: fingerprint,
		Suppressed:  services.ShouldSuppress(fingerprint, prior),
	}, nil
}
