package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/job"
	"github.com/maauso/showreel-api/internal/theme"
)

// maxBodyBytes bounds request bodies; frames arrive inline as base64.
const maxBodyBytes = 256 << 20

// Composer renders showreels synchronously. *compose.Composer implements it.
type Composer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Result, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	composer           Composer
	renders            *job.RenderService
	validator          *validator.Validate
	logger             *slog.Logger
	maxFrames          int
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing.
// When disabled, CreateRender only records the job and returns.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// WithMaxFrames rejects requests with more frames than n. Zero means no limit.
func WithMaxFrames(n int) HandlerOption {
	return func(h *Handlers) {
		h.maxFrames = n
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(composer Composer, renders *job.RenderService, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		composer:           composer,
		renders:            renders,
		validator:          validator.New(),
		logger:             logger,
		enableAsyncProcess: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Themes handles GET /themes requests.
func (h *Handlers) Themes(w http.ResponseWriter, _ *http.Request) {
	resp := ThemesResponse{}
	for _, t := range theme.All() {
		rec := theme.Resolve(t)
		resp.Themes = append(resp.Themes, ThemeResponse{
			Name:       string(t),
			Transition: rec.Transition,
			LUT:        rec.LUT,
			Music:      rec.Music,
		})
	}
	for _, r := range compose.Resolutions() {
		resp.Resolutions = append(resp.Resolutions, r.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ComposeVideo handles POST /videos requests. It encodes synchronously and
// responds with the MP4 bytes.
func (h *Handlers) ComposeVideo(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if !h.decode(w, r, &req) {
		return
	}

	creq, err := h.toComposeRequest(req)
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	result, err := h.composer.Compose(r.Context(), creq)
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Video-Duration", strconv.Itoa(result.Duration))
	w.Header().Set("X-Video-Audio", strconv.FormatBool(result.HasAudio))
	w.Header().Set("X-Session-ID", result.SessionID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.Warn("failed to write video response", slog.String("error", err.Error()))
	}
}

// CreateRender handles POST /renders requests.
func (h *Handlers) CreateRender(w http.ResponseWriter, r *http.Request) {
	var req CreateRenderRequest
	if !h.decode(w, r, &req) {
		return
	}

	creq, err := h.toComposeRequest(req.ComposeRequest)
	if err == nil {
		// Reject bad payloads now rather than in a failed job.
		err = creq.Validate()
	}
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	input := job.RenderInput{Request: creq, PushToS3: req.PushToS3}
	created, err := h.renders.CreateJob(r.Context(), input)
	if err != nil {
		h.logger.Error("failed to create render job", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create render job", "JOB_CREATION_FAILED")
		return
	}

	// The request context ends with this response; processing must not.
	if h.enableAsyncProcess {
		go func(ctx context.Context, jobID string) {
			if _, err := h.renders.ProcessExistingJob(ctx, jobID, input); err != nil {
				h.logger.Error("background render failed",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}(context.WithoutCancel(r.Context()), created.ID)
	}

	h.logger.Info("render job created",
		slog.String("job_id", created.ID),
		slog.Int("frames", len(creq.Frames)),
	)

	writeJSON(w, http.StatusAccepted, CreateRenderResponse{
		ID:     created.ID,
		Status: string(created.Status),
	})
}

// ListRenders handles GET /renders requests.
func (h *Handlers) ListRenders(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.renders.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("failed to list render jobs", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list render jobs", "JOB_FETCH_FAILED")
		return
	}

	resp := RenderListResponse{Renders: make([]RenderResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Renders = append(resp.Renders, toRenderResponse(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRender handles GET /renders/{id} requests.
func (h *Handlers) GetRender(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "render ID is required", "MISSING_JOB_ID")
		return
	}

	found, err := h.renders.GetJob(r.Context(), jobID)
	if err != nil {
		h.writeJobError(w, jobID, err)
		return
	}

	writeJSON(w, http.StatusOK, toRenderResponse(found))
}

// GetRenderVideo handles GET /renders/{id}/video requests by streaming the
// stored MP4 of a completed render.
func (h *Handlers) GetRenderVideo(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "render ID is required", "MISSING_JOB_ID")
		return
	}

	rc, found, err := h.renders.OpenVideo(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrVideoNotAvailable) {
			writeError(w, http.StatusNotFound, "video not available", "VIDEO_NOT_AVAILABLE")
			return
		}
		h.writeJobError(w, jobID, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", compose.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", found.ID+".mp4"))
	if found.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(found.SizeBytes))
	}
	w.Header().Set("X-Video-Duration", strconv.Itoa(found.DurationSeconds))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("failed to stream render",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}

// DeleteRender handles DELETE /renders/{id} requests.
func (h *Handlers) DeleteRender(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "render ID is required", "MISSING_JOB_ID")
		return
	}

	if err := h.renders.DeleteJob(r.Context(), jobID); err != nil {
		if errors.Is(err, job.ErrInvalidTransition) {
			writeError(w, http.StatusConflict, "render is still in progress", "JOB_NOT_TERMINAL")
			return
		}
		h.writeJobError(w, jobID, err)
		return
	}

	h.logger.Info("render job deleted", slog.String("job_id", jobID))
	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates a JSON body, writing the error response itself
// when it fails.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.logger.Warn("request validation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

func (h *Handlers) toComposeRequest(req ComposeRequest) (compose.Request, error) {
	if h.maxFrames > 0 && len(req.Frames) > h.maxFrames {
		return compose.Request{}, fmt.Errorf("%w: %d frames, limit is %d", compose.ErrTooManyFrames, len(req.Frames), h.maxFrames)
	}

	t, err := theme.Parse(req.Theme)
	if err != nil {
		return compose.Request{}, err
	}
	res, err := compose.ParseResolution(req.Resolution)
	if err != nil {
		return compose.Request{}, err
	}

	frames := make([]compose.Frame, len(req.Frames))
	for i, f := range req.Frames {
		data, err := compose.DecodeImagePayload(f.Image)
		if err != nil {
			return compose.Request{}, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = compose.Frame{
			ID:       f.ID,
			Data:     data,
			Duration: f.Duration,
			Caption:  f.Caption,
		}
	}

	return compose.Request{
		Frames:     frames,
		Theme:      t,
		Resolution: res,
		MusicURL:   req.MusicURL,
	}, nil
}

func (h *Handlers) writeComposeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, compose.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "at least one frame is required", "EMPTY_INPUT")
	case errors.Is(err, compose.ErrInvalidFrameData):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_FRAME_DATA")
	case errors.Is(err, compose.ErrTooManyFrames),
		errors.Is(err, compose.ErrUnknownResolution),
		errors.Is(err, theme.ErrUnknownTheme):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, compose.ErrEngineFailure):
		h.logger.Error("compose failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "video encoding failed", "ENGINE_FAILURE")
	default:
		h.logger.Error("compose failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

func (h *Handlers) writeJobError(w http.ResponseWriter, jobID string, err error) {
	if errors.Is(err, job.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, "render not found", "JOB_NOT_FOUND")
		return
	}
	h.logger.Error("render job lookup failed",
		slog.String("job_id", jobID),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "failed to get render", "JOB_FETCH_FAILED")
}

func toRenderResponse(j *job.Job) RenderResponse {
	resp := RenderResponse{
		ID:              j.ID,
		Status:          string(j.Status),
		Progress:        j.Progress,
		Error:           j.Error,
		Theme:           j.Theme,
		Resolution:      j.Resolution,
		Frames:          j.FrameCount,
		HasAudio:        j.HasAudio,
		DurationSeconds: j.DurationSeconds,
		SizeBytes:       j.SizeBytes,
		CreatedAt:       j.CreatedAt,
	}
	if j.Status == job.StatusCompleted {
		if j.VideoURL != "" {
			resp.VideoURL = j.VideoURL
		} else if j.OutputVideoPath != "" {
			resp.VideoURL = "/renders/" + j.ID + "/video"
		}
	}
	return resp
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
