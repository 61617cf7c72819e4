package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/seedframe/seedframe/pkg/animation"
	"github.com/seedframe/seedframe/pkg/hub"
)

// ProgressEvent is the JSON payload broadcast on a job's websocket.
type ProgressEvent struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	Frame       int    `json:"frame"`
	TotalFrames int    `json:"total_frames"`
	Error       string `json:"error,omitempty"`
}

// runJob executes one animation to completion in the background, writing
// frames to the job's output directory and broadcasting progress. It owns
// the seed Mat.
func (s *Server) runJob(ctx context.Context, id string, cfg animation.Config, features animation.FeatureSeries, seed gocv.Mat) {
	defer seed.Close()

	h, _ := s.jobs.Hub(id)
	started := time.Now()
	s.jobs.Update(id, func(j *Job) {
		j.Status = JobRunning
		j.StartedAt = &started
	})

	animator, err := animation.NewAnimator(cfg, s.oracle)
	if err != nil {
		s.finishJob(id, h, JobFailed, err)
		return
	}
	animator.Audio = features
	animator.OnProgress = func(current, total int) {
		s.jobs.Update(id, func(j *Job) { j.Frame = current })
		if h != nil {
			h.BroadcastJSON(ProgressEvent{
				JobID:       id,
				Status:      string(JobRunning),
				Frame:       current,
				TotalFrames: total,
			})
		}
	}

	frames, genErr := animator.Generate(ctx, seed)
	defer animation.CloseFrames(frames)

	// Frames produced before a failure or cancellation are still written out.
	rec, _ := s.jobs.Get(id)
	if err := writeFrames(rec.OutputDir, frames); err != nil {
		s.logger.Error("writing frames failed", "job_id", id, "error", err)
		if genErr == nil {
			genErr = err
		}
	}

	switch {
	case errors.Is(genErr, context.Canceled):
		s.finishJob(id, h, JobCanceled, nil)
	case genErr != nil:
		s.finishJob(id, h, JobFailed, genErr)
	default:
		s.finishJob(id, h, JobCompleted, nil)
	}
}

// finishJob records the terminal status and broadcasts the final event.
func (s *Server) finishJob(id string, h *hub.Hub, status JobStatus, cause error) {
	finished := time.Now()
	job, _ := s.jobs.Update(id, func(j *Job) {
		j.Status = status
		j.FinishedAt = &finished
		if cause != nil {
			j.Error = cause.Error()
		}
	})

	event := ProgressEvent{
		JobID:       id,
		Status:      string(status),
		Frame:       job.Frame,
		TotalFrames: job.TotalFrames,
		Error:       job.Error,
	}
	if h != nil {
		h.BroadcastJSON(event)
	}
	s.logger.Info("job finished", "job_id", id, "status", status, "frames", job.Frame+1)
}

// writeFrames encodes each frame as PNG into dir.
func writeFrames(dir string, frames []gocv.Mat) error {
	for i := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i))
		if ok := gocv.IMWrite(path, frames[i]); !ok {
			return fmt.Errorf("write frame %d to %s", i, path)
		}
	}
	return nil
}
