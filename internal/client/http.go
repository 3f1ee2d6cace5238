package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
)

// HTTPClient talks to a running SmartClip server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// BaseURL returns the normalized server base URL, the prefix preview
// resources get resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) ListVoices(ctx context.Context) ([]job.Voice, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/voices", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Voices []job.Voice `json:"voices"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Voices, nil
}

func (c *HTTPClient) CreateJob(ctx context.Context, r CreateJobRequest) (CreateJobResponse, error) {
	if r.VideoURL == "" && r.VideoPath == "" {
		return CreateJobResponse{}, fmt.Errorf("a video url or an upload file is required")
	}
	if r.VideoURL != "" && r.VideoPath != "" {
		return CreateJobResponse{}, fmt.Errorf("provide either a video url or an upload file, not both")
	}

	if r.VideoPath != "" {
		return c.createJobUpload(ctx, r)
	}
	return c.createJobByURL(ctx, r)
}

func (c *HTTPClient) createJobByURL(ctx context.Context, r CreateJobRequest) (CreateJobResponse, error) {
	payload := struct {
		VideoURL    string `json:"video_url"`
		ScriptInput string `json:"script_input"`
		Voice       string `json:"voice"`
	}{r.VideoURL, r.Script, r.VoiceID}

	body, err := json.Marshal(payload)
	if err != nil {
		return CreateJobResponse{}, fmt.Errorf("marshal create payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/jobs", bytes.NewReader(body))
	if err != nil {
		return CreateJobResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("creating job from url", "url", r.VideoURL, "voice", r.VoiceID)

	var out CreateJobResponse
	if err := c.do(req, &out); err != nil {
		return CreateJobResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) createJobUpload(ctx context.Context, r CreateJobRequest) (CreateJobResponse, error) {
	f, err := os.Open(r.VideoPath)
	if err != nil {
		return CreateJobResponse{}, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return CreateJobResponse{}, fmt.Errorf("stat upload file: %w", err)
	}

	// Stream the blob through a pipe so large files never sit in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("video_file", filepath.Base(r.VideoPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("script_input", r.Script); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("voice", r.VoiceID); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/jobs", pr)
	if err != nil {
		return CreateJobResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("uploading source video",
		"path", logging.SanitizePath(r.VideoPath),
		"size", humanize.Bytes(uint64(fi.Size())),
		"voice", r.VoiceID,
	)

	var out CreateJobResponse
	if err := c.do(req, &out); err != nil {
		return CreateJobResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) JobStatus(ctx context.Context, jobID string) (job.Progress, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/"+jobID+"/status", nil)
	if err != nil {
		return job.Progress{}, err
	}

	var out job.Progress
	if err := c.do(req, &out); err != nil {
		return job.Progress{}, err
	}
	c.logger.Debug("status snapshot", "job_id", jobID, "status", out.Status, "progress", out.Progress)
	return out, nil
}

func (c *HTTPClient) JobPreview(ctx context.Context, jobID string) (job.Preview, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/"+jobID+"/preview", nil)
	if err != nil {
		return job.Preview{}, err
	}

	var out job.Preview
	if err := c.do(req, &out); err != nil {
		return job.Preview{}, err
	}
	return out, nil
}

// Download streams the final clip into w and returns the byte count.
func (c *HTTPClient) Download(ctx context.Context, jobID string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/jobs/"+jobID+"/download", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, newAPIError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read download body: %w", err)
	}
	c.logger.Info("clip downloaded", "job_id", jobID, "size", humanize.Bytes(uint64(n)))
	return n, nil
}

// DownloadURL returns the direct resource locator for a job's final clip.
func (c *HTTPClient) DownloadURL(jobID string) string {
	return fmt.Sprintf("%s/jobs/%s/download", c.baseURL, jobID)
}

func (c *HTTPClient) DeleteJob(ctx context.Context, jobID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/jobs/"+jobID, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return err
	}
	c.logger.Info("job deleted", "job_id", jobID)
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Smartclip-Request-Id", uuid.NewString())
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
