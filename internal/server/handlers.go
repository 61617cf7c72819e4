package server

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/seedframe/seedframe/internal/config"
	"github.com/seedframe/seedframe/pkg/animation"
	"github.com/seedframe/seedframe/pkg/hub"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

// CreateJobRequest is the body for POST /api/jobs.
type CreateJobRequest struct {
	// Run carries the animation settings, same schema as the CLI run file.
	Run config.Run `json:"run"`

	// SeedImage is the base64-encoded initial image (PNG or JPEG). It is
	// resized to the run dimensions if it does not match.
	SeedImage string `json:"seed_image"`
}

// SchedulePreviewRequest is the body for POST /api/schedules/preview.
type SchedulePreviewRequest struct {
	TotalFrames int               `json:"total_frames"`
	Prompts     map[int]string    `json:"prompts"`
	Schedules   map[string]string `json:"schedules"`
}

// handleHealth reports server and oracle health.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.oracle.Health(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"oracle": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleCreateJob validates a run, decodes the seed image, and starts the
// animation in the background.
func (s *Server) handleCreateJob(c *fiber.Ctx) error {
	var req CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	cfg, err := req.Run.Animation()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	seed, err := decodeSeedImage(req.SeedImage, cfg.Width, cfg.Height)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	id := uuid.NewString()
	outDir := filepath.Join(s.outputRoot, id)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		seed.Close()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "create output directory: " + err.Error(),
		})
	}

	job := Job{
		ID:          id,
		Status:      JobPending,
		TotalFrames: cfg.TotalFrames,
		OutputDir:   outDir,
		CreatedAt:   time.Now(),
	}

	h := hub.New(id)
	go h.Run()

	ctx, cancel := context.WithCancel(context.Background())
	s.jobs.Add(job, cancel, h)

	go s.runJob(ctx, id, cfg, req.Run.AudioFeatures, seed)

	s.logger.Info("job accepted", "job_id", id, "frames", cfg.TotalFrames)
	return c.Status(fiber.StatusAccepted).JSON(job)
}

// handleListJobs returns all jobs, newest first.
func (s *Server) handleListJobs(c *fiber.Ctx) error {
	return c.JSON(s.jobs.List())
}

// handleGetJob returns one job.
func (s *Server) handleGetJob(c *fiber.Ctx) error {
	job, ok := s.jobs.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "job not found",
		})
	}
	return c.JSON(job)
}

// handleCancelJob requests cancellation of a running job.
func (s *Server) handleCancelJob(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.jobs.Cancel(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "job not found",
		})
	}
	job, _ := s.jobs.Get(id)
	return c.JSON(job)
}

// handleSchedulePreview resolves prompts and schedules into the dense
// keyframe list without running anything.
func (s *Server) handleSchedulePreview(c *fiber.Ctx) error {
	var req SchedulePreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}
	if req.TotalFrames <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "total_frames must be positive",
		})
	}

	keyframes, err := animation.BuildKeyframes(req.TotalFrames, req.Prompts, req.Schedules)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"keyframes": keyframes})
}

// handleListSamplers returns the sampler registry.
func (s *Server) handleListSamplers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"samplers": synthesis.Samplers(),
		"default":  synthesis.DefaultSamplerName,
	})
}

// handleJobWS streams progress events for one job.
func (s *Server) handleJobWS(c *websocket.Conn) {
	id := c.Params("id")
	h, ok := s.jobs.Hub(id)
	if !ok {
		c.Close()
		return
	}

	// Send the current snapshot so late subscribers start in sync.
	if job, exists := s.jobs.Get(id); exists {
		c.WriteJSON(job)
	}

	client := hub.NewClient(h, c)
	client.Run()
}

// decodeSeedImage decodes a base64 image and resizes it to the target
// dimensions when needed. The returned Mat is owned by the caller.
func decodeSeedImage(encoded string, width, height int) (gocv.Mat, error) {
	if encoded == "" {
		return gocv.Mat{}, animation.ErrEmptySeed
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return gocv.Mat{}, errors.New("seed_image is not valid base64")
	}
	img, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil || img.Empty() {
		return gocv.Mat{}, errors.New("seed_image is not a decodable image")
	}
	if img.Cols() == width && img.Rows() == height {
		return img, nil
	}
	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	img.Close()
	return resized, nil
}
