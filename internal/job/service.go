package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/metrics"
	"github.com/maauso/showreel-api/internal/storage"
)

// ErrVideoNotAvailable is returned when a job has no locally stored video.
var ErrVideoNotAvailable = errors.New("video not available")

// Composer renders showreels. *compose.Composer implements it.
type Composer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Result, error)
}

// RenderInput contains the parameters of an asynchronous render.
type RenderInput struct {
	// Request is the showreel to encode.
	Request compose.Request
	// PushToS3 indicates whether to upload the final video to S3.
	PushToS3 bool
}

// RenderOutput contains the result of a processed render job.
type RenderOutput struct {
	JobID     string
	Status    Status
	VideoPath string
	VideoURL  string
	Error     string
}

// RenderService runs showreel encodes as jobs: it records each request,
// encodes it through the composer and keeps the result in render storage.
type RenderService struct {
	repo     Repository
	composer Composer
	storage  storage.Storage
	logger   *slog.Logger
}

// NewRenderService creates a new RenderService.
func NewRenderService(repo Repository, composer Composer, store storage.Storage, logger *slog.Logger) *RenderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderService{
		repo:     repo,
		composer: composer,
		storage:  store,
		logger:   logger,
	}
}

// CreateJob creates a job in IN_QUEUE status and persists it.
func (s *RenderService) CreateJob(ctx context.Context, input RenderInput) (*Job, error) {
	job := New()
	job.Theme = string(input.Request.Theme)
	job.Resolution = input.Request.Resolution.Name
	job.FrameCount = len(input.Request.Frames)
	job.PushToS3 = input.PushToS3

	s.logger.Info("creating render job",
		slog.String("job_id", job.ID),
		slog.String("theme", job.Theme),
		slog.String("resolution", job.Resolution),
		slog.Int("frames", job.FrameCount),
		slog.Bool("push_to_s3", input.PushToS3),
	)

	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return job, nil
}

// GetJob retrieves a job by ID.
func (s *RenderService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// ListJobs returns all jobs, newest first.
func (s *RenderService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// DeleteJob removes a job and its locally stored video.
func (s *RenderService) DeleteJob(ctx context.Context, id string) error {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !job.IsTerminal() {
		return fmt.Errorf("job %s is %s: %w", id, job.Status, ErrInvalidTransition)
	}

	if job.OutputVideoPath != "" {
		if err := s.storage.RemoveRenders(ctx, []string{job.OutputVideoPath}); err != nil {
			s.logger.Warn("failed to remove render file",
				slog.String("job_id", id),
				slog.String("path", job.OutputVideoPath),
				slog.String("error", err.Error()),
			)
		}
	}

	return s.repo.Delete(ctx, id)
}

// OpenVideo opens the stored video of a completed job.
// Returns ErrVideoNotAvailable if the job is not completed or has no local file.
func (s *RenderService) OpenVideo(ctx context.Context, id string) (io.ReadCloser, *Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != StatusCompleted || job.OutputVideoPath == "" {
		return nil, job, ErrVideoNotAvailable
	}

	rc, err := s.storage.OpenRender(ctx, job.OutputVideoPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// The file is gone; stop advertising it.
			s.logger.Warn("stored render is missing",
				slog.String("job_id", id),
				slog.String("path", job.OutputVideoPath),
			)
			job.ClearOutput()
			s.save(ctx, job, s.logger)
		}
		return nil, job, fmt.Errorf("%w: %w", ErrVideoNotAvailable, err)
	}
	return rc, job, nil
}

// Process creates a job and runs it to completion.
func (s *RenderService) Process(ctx context.Context, input RenderInput) (*RenderOutput, error) {
	job, err := s.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.ProcessExistingJob(ctx, job.ID, input)
}

// ProcessExistingJob runs a previously created job. The job ends in
// COMPLETED, FAILED or TIMED_OUT; the returned error is the cause of a
// non-completed outcome.
func (s *RenderService) ProcessExistingJob(ctx context.Context, jobID string, input RenderInput) (*RenderOutput, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(slog.String("job_id", jobID))

	if err := job.Start(); err != nil {
		return nil, fmt.Errorf("start job: %w", err)
	}
	job.UpdateProgress(10)
	s.save(ctx, job, logger)

	metrics.RenderJobsInProgress.Inc()
	defer metrics.RenderJobsInProgress.Dec()

	result, err := s.composer.Compose(ctx, input.Request)
	if err != nil {
		return s.finishWithError(ctx, job, err, logger)
	}
	job.SetResult(result.Duration, len(result.Data), result.HasAudio)
	job.UpdateProgress(80)
	s.save(ctx, job, logger)

	path, err := s.storage.SaveRender(ctx, jobID, bytes.NewReader(result.Data))
	if err != nil {
		return s.finishWithError(ctx, job, fmt.Errorf("save render: %w", err), logger)
	}

	var videoURL string
	if input.PushToS3 {
		videoURL, err = s.storage.UploadToS3(ctx, "renders/"+jobID+".mp4", bytes.NewReader(result.Data))
		if err != nil {
			_ = s.storage.RemoveRenders(context.WithoutCancel(ctx), []string{path})
			return s.finishWithError(ctx, job, err, logger)
		}
	}
	job.SetOutput(path, videoURL)

	if err := job.Complete(); err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}
	s.save(ctx, job, logger)
	metrics.RecordRenderJob(string(StatusCompleted))

	logger.Info("render job completed",
		slog.String("path", path),
		slog.String("video_url", videoURL),
		slog.Int("duration_sec", result.Duration),
	)

	return &RenderOutput{
		JobID:     jobID,
		Status:    StatusCompleted,
		VideoPath: path,
		VideoURL:  videoURL,
	}, nil
}

func (s *RenderService) finishWithError(ctx context.Context, job *Job, cause error, logger *slog.Logger) (*RenderOutput, error) {
	var terr error
	if errors.Is(cause, context.DeadlineExceeded) {
		terr = job.Timeout(cause.Error())
	} else {
		terr = job.Fail(cause.Error())
	}
	if terr != nil {
		return nil, fmt.Errorf("record failure: %w", terr)
	}

	status := job.GetStatus()
	s.save(ctx, job, logger)
	metrics.RecordRenderJob(string(status))

	logger.Error("render job failed",
		slog.String("status", string(status)),
		slog.String("error", cause.Error()),
	)

	return &RenderOutput{
		JobID:  job.ID,
		Status: status,
		Error:  cause.Error(),
	}, cause
}

// save persists job state. The write is detached from ctx so a cancelled
// caller still leaves an accurate status behind.
func (s *RenderService) save(ctx context.Context, job *Job, logger *slog.Logger) {
	if err := s.repo.Save(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("failed to save job", slog.String("error", err.Error()))
	}
}
