// Package job provides the render job aggregate used for asynchronous
// showreel encodes: the Job entity with its state machine, and the
// repository port it is persisted through.
package job

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/maauso/showreel-api/internal/job/id"
)

// Status represents the current state of a Job.
type Status string

const (
	// StatusInQueue indicates the job is accepted but encoding has not begun.
	StatusInQueue Status = "IN_QUEUE"
	// StatusRunning indicates the job holds the engine and is encoding.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates the video was encoded and stored.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the encode or its storage failed.
	StatusFailed Status = "FAILED"
	// StatusTimedOut indicates the encode exceeded its time budget.
	StatusTimedOut Status = "TIMED_OUT"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

var validTransitions = map[Status][]Status{
	StatusInQueue:   {StatusRunning, StatusFailed, StatusTimedOut},
	StatusRunning:   {StatusCompleted, StatusFailed, StatusTimedOut},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusTimedOut:  {},
}

func canTransition(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

// Job is one asynchronous render.
type Job struct {
	mu sync.RWMutex

	// ID is the unique identifier for this job.
	ID string
	// Status is the current job state.
	Status Status
	// Progress is the percentage of completion (0-100).
	Progress int
	// Error contains the failure message for FAILED and TIMED_OUT jobs.
	Error string

	// Theme is the requested theme name.
	Theme string
	// Resolution is the requested resolution profile name.
	Resolution string
	// FrameCount is the number of frames in the request.
	FrameCount int

	// DurationSeconds is the length of the encoded video.
	DurationSeconds int
	// HasAudio reports whether background music made it into the video.
	HasAudio bool
	// SizeBytes is the size of the encoded video.
	SizeBytes int

	// OutputVideoPath is the local path of the stored render.
	OutputVideoPath string
	// PushToS3 indicates whether to upload the result to S3.
	PushToS3 bool
	// VideoURL is the S3 URL if PushToS3 was true.
	VideoURL string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// New creates a Job with a generated ID in IN_QUEUE status.
func New() *Job {
	return NewWithID(id.Generate())
}

// NewWithID creates a Job with the given ID in IN_QUEUE status.
func NewWithID(jobID string) *Job {
	now := time.Now()
	return &Job{
		ID:        jobID,
		Status:    StatusInQueue,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo changes the job status.
// Returns ErrInvalidTransition if the transition is not allowed.
func (j *Job) TransitionTo(status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transitionLocked(status)
}

func (j *Job) transitionLocked(status Status) error {
	if !canTransition(j.Status, status) {
		return ErrInvalidTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		j.StartedAt = j.UpdatedAt
	case StatusCompleted, StatusFailed, StatusTimedOut:
		j.CompletedAt = j.UpdatedAt
	}
	return nil
}

// Start transitions the job from IN_QUEUE to RUNNING.
func (j *Job) Start() error {
	return j.TransitionTo(StatusRunning)
}

// Complete transitions the job to COMPLETED and sets progress to 100.
func (j *Job) Complete() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(StatusCompleted); err != nil {
		return err
	}
	j.Progress = 100
	return nil
}

// Fail transitions the job to FAILED with an error message.
func (j *Job) Fail(errMsg string) error {
	return j.finishWithError(StatusFailed, errMsg)
}

// Timeout transitions the job to TIMED_OUT with an error message.
func (j *Job) Timeout(errMsg string) error {
	return j.finishWithError(StatusTimedOut, errMsg)
}

func (j *Job) finishWithError(status Status, errMsg string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transitionLocked(status); err != nil {
		return err
	}
	j.Error = errMsg
	return nil
}

// GetStatus returns the current job status.
func (j *Job) GetStatus() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// UpdateProgress sets the progress percentage, clamped to 0-100.
func (j *Job) UpdateProgress(progress int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress = min(max(progress, 0), 100)
	j.UpdatedAt = time.Now()
}

// SetResult records what the encoder produced.
func (j *Job) SetResult(durationSeconds, sizeBytes int, hasAudio bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DurationSeconds = durationSeconds
	j.SizeBytes = sizeBytes
	j.HasAudio = hasAudio
	j.UpdatedAt = time.Now()
}

// SetOutput sets the stored video path and optional S3 URL.
func (j *Job) SetOutput(videoPath, videoURL string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputVideoPath = videoPath
	j.VideoURL = videoURL
	j.UpdatedAt = time.Now()
}

// ClearOutput forgets the stored video, e.g. after its file was deleted.
func (j *Job) ClearOutput() {
	j.SetOutput("", "")
}

// IsTerminal returns true if the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(validTransitions[j.Status]) == 0
}

// Clone creates a copy of the job for safe reads.
func (j *Job) Clone() *Job {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return &Job{
		ID:              j.ID,
		Status:          j.Status,
		Progress:        j.Progress,
		Error:           j.Error,
		Theme:           j.Theme,
		Resolution:      j.Resolution,
		FrameCount:      j.FrameCount,
		DurationSeconds: j.DurationSeconds,
		HasAudio:        j.HasAudio,
		SizeBytes:       j.SizeBytes,
		OutputVideoPath: j.OutputVideoPath,
		PushToS3:        j.PushToS3,
		VideoURL:        j.VideoURL,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
	}
}
