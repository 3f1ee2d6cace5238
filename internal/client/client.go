// Package client talks to a SmartClip server over HTTP: voice listing, job
// creation (by URL or upload), status polls, preview and artifact retrieval.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/smartclipper/smartclip/internal/job"
)

// Client is the remote job collaborator as seen by the CLI and the tracker.
type Client interface {
	ListVoices(ctx context.Context) ([]job.Voice, error)
	CreateJob(ctx context.Context, req CreateJobRequest) (CreateJobResponse, error)
	JobStatus(ctx context.Context, jobID string) (job.Progress, error)
	JobPreview(ctx context.Context, jobID string) (job.Preview, error)
	Download(ctx context.Context, jobID string, w io.Writer) (int64, error)
	DownloadURL(jobID string) string
	DeleteJob(ctx context.Context, jobID string) error
}

// CreateJobRequest describes a new job. Exactly one of VideoURL and
// VideoPath must be set; VideoPath uploads the file as multipart form data.
type CreateJobRequest struct {
	VideoURL  string
	VideoPath string
	Script    string
	VoiceID   string
}

// CreateJobResponse is the server's acknowledgement of a created job.
type CreateJobResponse struct {
	JobID  string     `json:"job_id"`
	Status job.Status `json:"status"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("smartclip api: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("smartclip api: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx) and false for client
// errors, which are permanent.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	var parsed struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Message = parsed.Error
		apiErr.Code = parsed.Code
	}
	return apiErr
}
