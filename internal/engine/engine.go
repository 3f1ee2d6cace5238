// Package engine drives jobs through the processing lifecycle. The Sim
// implementation walks the full status choreography and writes placeholder
// artifacts; it does not run a real media pipeline.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
	"github.com/smartclipper/smartclip/internal/script"
	"github.com/smartclipper/smartclip/internal/store"
)

// Engine is the processing contract the API hands jobs to.
type Engine interface {
	// Process schedules background processing for a job already in the store.
	// It returns immediately.
	Process(jobID string)

	// Stop cancels in-flight processing and waits for workers to exit.
	Stop()
}

// Config holds the engine's configuration.
type Config struct {
	Store     *store.Store
	OutputDir string        // base dir for artifacts, e.g. ~/.smartclip/server/output
	StepDelay time.Duration // pause between simulated stages
	MaxActive int           // jobs processed concurrently; others queue
	Logger    *slog.Logger
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig(st *store.Store, outputDir string, logger *slog.Logger) Config {
	return Config{
		Store:     st,
		OutputDir: outputDir,
		StepDelay: 400 * time.Millisecond,
		MaxActive: 2,
		Logger:    logger,
	}
}

// Sim is the simulated implementation of Engine.
type Sim struct {
	cfg Config
	sem chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSim creates a Sim and its artifact directory.
func NewSim(cfg Config) (*Sim, error) {
	if cfg.MaxActive < 1 {
		cfg.MaxActive = 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	cfg.Logger.Info("simulated engine initialised",
		"output_dir", cfg.OutputDir,
		"step_delay_ms", cfg.StepDelay.Milliseconds(),
		"max_active", cfg.MaxActive,
	)

	return &Sim{
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxActive),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Process schedules the job on a worker goroutine. The job stays pending
// until a concurrency slot frees up.
func (s *Sim) Process(jobID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}
		defer func() { <-s.sem }()

		s.run(jobID)
	}()
}

// Stop cancels all processing and blocks until workers drain.
func (s *Sim) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sim) run(jobID string) {
	log := logging.WithJobID(s.cfg.Logger, jobID)

	j, err := s.cfg.Store.Get(jobID)
	if err != nil {
		log.Warn("job vanished before processing started", "error", err)
		return
	}

	start := time.Now()
	if err := s.process(s.ctx, &j, log); err != nil {
		if s.ctx.Err() != nil {
			log.Info("processing abandoned on shutdown")
			return
		}
		s.setFailed(jobID, err)
		log.Error("job failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	log.Info("job completed", "duration_ms", time.Since(start).Milliseconds())
}

// process walks the stages in order. The job argument is a read-only copy;
// all visible state changes go through the store.
func (s *Sim) process(ctx context.Context, j *job.Job, log *slog.Logger) error {
	jobDir := filepath.Join(s.cfg.OutputDir, j.ID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return fmt.Errorf("cannot create job dir: %w", err)
	}

	if err := s.acquireSource(ctx, j, log); err != nil {
		return err
	}

	total, err := s.generateAudio(ctx, j, jobDir)
	if err != nil {
		return err
	}

	if err := s.processClips(ctx, j); err != nil {
		return err
	}

	return s.finalize(ctx, j, jobDir, total)
}

// acquireSource simulates fetching the video, from a URL or an uploaded file.
func (s *Sim) acquireSource(ctx context.Context, j *job.Job, log *slog.Logger) error {
	if j.Upload != "" {
		s.setProgress(j.ID, job.StatusUploading, 10, "Reading uploaded video...")
		if err := s.pace(ctx); err != nil {
			return err
		}
		if _, err := os.Stat(j.Upload); err != nil {
			return fmt.Errorf("upload failed: stored source missing: %w", err)
		}
		log.Info("upload source ready", "path", logging.SanitizePath(j.Upload))
		s.setProgress(j.ID, job.StatusUploading, 20, "Video ready")
		return nil
	}

	s.setProgress(j.ID, job.StatusDownloading, 5, "Downloading video...")
	if err := s.pace(ctx); err != nil {
		return err
	}
	u, err := url.Parse(j.VideoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("download failed: unsupported source url %q", j.VideoURL)
	}
	log.Info("download simulated", "host", u.Host)
	s.setProgress(j.ID, job.StatusDownloading, 20, "Video downloaded")
	return nil
}

// generateAudio walks the segments, accumulating the narration duration, and
// writes the voiceover artifact. Returns the total duration in seconds.
func (s *Sim) generateAudio(ctx context.Context, j *job.Job, jobDir string) (float64, error) {
	s.setProgress(j.ID, job.StatusGeneratingAudio, 25, "Generating voiceover...")

	n := len(j.Segments)
	total := 0.0
	for i, seg := range j.Segments {
		if err := s.pace(ctx); err != nil {
			return 0, err
		}
		total += script.SpeechSeconds(seg.Text)
		pct := 25 + int(float64(i+1)/float64(n)*15)
		s.setProgress(j.ID, job.StatusGeneratingAudio, pct, fmt.Sprintf("Generated audio %d/%d", i+1, n))
	}

	audioPath := filepath.Join(jobDir, "audio.wav")
	if err := writeSilentWAV(audioPath, total); err != nil {
		return 0, fmt.Errorf("audio generation failed: %w", err)
	}

	err := s.cfg.Store.Update(j.ID, func(j *job.Job) {
		j.Status = job.StatusGeneratingAudio
		j.Progress = 40
		j.Message = "Audio complete"
		j.AudioPath = audioPath
		j.Duration = total
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Sim) processClips(ctx context.Context, j *job.Job) error {
	s.setProgress(j.ID, job.StatusProcessingVideo, 45, "Processing video clips...")

	n := len(j.Segments)
	for i := range j.Segments {
		if err := s.pace(ctx); err != nil {
			return err
		}
		pct := 45 + int(float64(i+1)/float64(n)*35)
		s.setProgress(j.ID, job.StatusProcessingVideo, pct, fmt.Sprintf("Processed clip %d/%d", i+1, n))
	}
	return nil
}

// finalize writes the assembled video and per-segment thumbnails, then marks
// the job complete.
func (s *Sim) finalize(ctx context.Context, j *job.Job, jobDir string, total float64) error {
	s.setProgress(j.ID, job.StatusFinalizing, 85, "Assembling final video...")
	if err := s.pace(ctx); err != nil {
		return err
	}

	videoPath := filepath.Join(jobDir, "output.mp4")
	if err := writeVideoStub(videoPath, total); err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	s.setProgress(j.ID, job.StatusFinalizing, 95, "Generating preview...")
	if err := s.pace(ctx); err != nil {
		return err
	}

	thumbs := make([]string, 0, len(j.Segments))
	for i := range j.Segments {
		name := fmt.Sprintf("thumb_%d.jpg", i)
		if err := writeThumbnail(filepath.Join(jobDir, name), i); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		thumbs = append(thumbs, "/static/"+j.ID+"/"+name)
	}

	return s.cfg.Store.Update(j.ID, func(j *job.Job) {
		j.Status = job.StatusCompleted
		j.Progress = 100
		j.Message = "Complete!"
		j.VideoPath = videoPath
		j.Thumbnails = thumbs
		j.CompletedAt = time.Now().UTC()
	})
}

// pace waits out the configured step delay, bailing early on cancellation.
func (s *Sim) pace(ctx context.Context) error {
	if s.cfg.StepDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.StepDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Sim) setProgress(jobID string, st job.Status, progress int, msg string) {
	_ = s.cfg.Store.Update(jobID, func(j *job.Job) {
		j.Status = st
		j.Progress = progress
		j.Message = msg
	})
}

func (s *Sim) setFailed(jobID string, cause error) {
	_ = s.cfg.Store.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Error = cause.Error()
		j.Message = "Processing failed: " + cause.Error()
	})
}
