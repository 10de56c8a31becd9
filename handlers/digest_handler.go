package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/jobs"
)

// DigestHandler exposes the digest pipeline over HTTP for operators:
// previewing what the bot would send and triggering a real run.
type DigestHandler struct {
	job *jobs.DigestJob
}

// NewDigestHandler creates a handler around the given job
func NewDigestHandler(job *jobs.DigestJob) *DigestHandler {
	return &DigestHandler{job: job}
}

// PreviewDigest runs the pipeline without sending or persisting and
// returns the digest that a real run would produce.
func (h *DigestHandler) PreviewDigest(c *fiber.Ctx) error {
	digest, err := h.job.Preview(c.Context())
	if err != nil {
		logrus.WithError(err).Error("Digest preview failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(digest)
}

// TriggerRun executes a full digest run, including delivery and
// fingerprint persistence, and reports the outcome.
func (h *DigestHandler) TriggerRun(c *fiber.Ctx) error {
	startTime := time.Now()

	if err := h.job.Run(c.Context()); err != nil {
		logrus.WithError(err).Error("Triggered digest run failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status": "failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":   "completed",
		"duration": time.Since(startTime).String(),
	})
}

// Metrics returns the job's run counters
func (h *DigestHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.job.Metrics().GetSnapshot())
}
