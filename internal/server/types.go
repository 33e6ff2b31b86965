// Package server provides the HTTP API of the showreel service.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// FrameRequest is one image of a showreel request.
type FrameRequest struct {
	// ID identifies the frame in logs.
	ID string `json:"id" validate:"max=128"`
	// Image is a data URI or bare base64 string.
	Image string `json:"image" validate:"required"`
	// Duration is the preferred display time in seconds. Advisory only.
	Duration float64 `json:"duration,omitempty" validate:"gte=0,lte=600"`
	// Caption is display-only metadata.
	Caption string `json:"caption,omitempty" validate:"max=500"`
}

// ComposeRequest is the HTTP request body for composing a showreel.
// An empty frame list passes validation and is reported as EMPTY_INPUT.
type ComposeRequest struct {
	Frames     []FrameRequest `json:"frames" validate:"dive"`
	Theme      string         `json:"theme" validate:"required,oneof=electric cinematic retro neon"`
	Resolution string         `json:"resolution" validate:"omitempty,oneof=4k 1080p"`
	MusicURL   string         `json:"music_url,omitempty" validate:"omitempty,url"`
}

// CreateRenderRequest is the HTTP request body for an asynchronous render.
type CreateRenderRequest struct {
	ComposeRequest
	// PushToS3 indicates whether to upload the final video to S3.
	PushToS3 bool `json:"push_to_s3"`
}

// CreateRenderResponse is the HTTP response after creating a render job.
type CreateRenderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RenderResponse describes a render job.
type RenderResponse struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Progress        int       `json:"progress"`
	Error           string    `json:"error,omitempty"`
	Theme           string    `json:"theme"`
	Resolution      string    `json:"resolution"`
	Frames          int       `json:"frames"`
	HasAudio        bool      `json:"has_audio"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	SizeBytes       int       `json:"size_bytes,omitempty"`
	// VideoURL is the S3 URL when the render was pushed to S3, otherwise the
	// local download path once completed.
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RenderListResponse lists render jobs, newest first.
type RenderListResponse struct {
	Renders []RenderResponse `json:"renders"`
}

// ThemeResponse describes one theme.
type ThemeResponse struct {
	Name       string `json:"name"`
	Transition string `json:"transition"`
	LUT        string `json:"lut"`
	Music      string `json:"music"`
}

// ThemesResponse lists the available themes.
type ThemesResponse struct {
	Themes      []ThemeResponse `json:"themes"`
	Resolutions []string        `json:"resolutions"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
