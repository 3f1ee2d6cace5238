package api

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smartclipper/smartclip/internal/job"
	"github.com/smartclipper/smartclip/internal/logging"
	"github.com/smartclipper/smartclip/internal/script"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory
// before spilling to temp files.
const maxUploadMemory = 64 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist(cfg.Origins))

	r.Get("/", rootHandler(cfg))
	r.Get("/health", healthHandler(cfg))
	r.Get("/jobs/voices", listVoicesHandler())
	r.Post("/jobs", createJobHandler(cfg))
	r.Get("/jobs/{jobID}/status", jobStatusHandler(cfg))
	r.Get("/jobs/{jobID}/preview", jobPreviewHandler(cfg))
	r.Delete("/jobs/{jobID}", deleteJobHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(LoopbackGuard())
		r.Get("/jobs/{jobID}/download", downloadHandler(cfg))
		r.Get("/static/{jobID}/{name}", staticHandler(cfg))
	})

	return r
}

func rootHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, ServiceInfoResponse{
			Service: "smartclip",
			Version: cfg.Version,
			Health:  "/health",
		})
	}
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "healthy",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func listVoicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, VoicesResponse{Voices: job.AvailableVoices()})
	}
}

// createInput is the source-agnostic form of a create request, filled from
// either the JSON or the multipart encoding.
type createInput struct {
	videoURL    string
	scriptInput string
	voice       string
	file        multipart.File
	header      *multipart.FileHeader
}

func createJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeCreateRequest(w, r)
		if !ok {
			return
		}
		if in.file != nil {
			defer in.file.Close()
		}

		hasFile := in.file != nil
		if in.videoURL == "" && !hasFile {
			WriteError(w, http.StatusBadRequest, "a video url or an upload file is required", "BAD_REQUEST")
			return
		}
		if in.videoURL != "" && hasFile {
			WriteError(w, http.StatusBadRequest, "provide either a video url or an upload file, not both", "BAD_REQUEST")
			return
		}

		parsed := script.Parse(in.scriptInput)
		if len(parsed.Segments) == 0 {
			WriteError(w, http.StatusBadRequest, "no valid script segments found", "BAD_REQUEST")
			return
		}

		voice := in.voice
		if voice == "" {
			voice = job.DefaultVoiceID
		}
		if !job.ValidVoice(voice) {
			WriteError(w, http.StatusBadRequest, "invalid voice", "BAD_REQUEST")
			return
		}

		id := job.NewID()
		j := &job.Job{
			ID:       id,
			VideoURL: in.videoURL,
			VoiceID:  voice,
			Segments: parsed.Segments,
			Status:   job.StatusPending,
			Message:  "Job created, starting processing...",
		}

		if hasFile {
			path, err := saveUpload(filepath.Join(cfg.UploadsDir, id), in.file, in.header)
			if err != nil {
				cfg.Logger.Error("failed to store upload", "error", err)
				WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
				return
			}
			j.Upload = path
		}

		cfg.Store.Create(j)
		cfg.Engine.Process(id)

		logging.WithJobID(cfg.Logger, id).Info("job created",
			"segments", len(parsed.Segments),
			"invalid_lines", len(parsed.InvalidLines),
			"voice", voice,
			"upload", hasFile,
		)

		WriteJSON(w, http.StatusCreated, CreateJobResponse{JobID: id, Status: job.StatusPending})
	}
}

func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (createInput, bool) {
	var in createInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart form", "BAD_REQUEST")
			return in, false
		}
		in.videoURL = strings.TrimSpace(r.FormValue("video_url"))
		in.scriptInput = r.FormValue("script_input")
		in.voice = strings.TrimSpace(r.FormValue("voice"))

		file, header, err := r.FormFile("video_file")
		switch err {
		case nil:
			in.file, in.header = file, header
		case http.ErrMissingFile:
		default:
			WriteError(w, http.StatusBadRequest, "invalid upload file", "BAD_REQUEST")
			return in, false
		}
		return in, true
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return in, false
	}
	in.videoURL = strings.TrimSpace(req.VideoURL)
	in.scriptInput = req.ScriptInput
	in.voice = strings.TrimSpace(req.Voice)
	return in, true
}

// saveUpload stores the uploaded blob under dir using the client-supplied
// base name, stripped of any path components.
func saveUpload(dir string, file multipart.File, header *multipart.FileHeader) (string, error) {
	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.mp4"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

func jobStatusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := cfg.Store.Get(chi.URLParam(r, "jobID"))
		if err != nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, j.Snapshot())
	}
}

func jobPreviewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := cfg.Store.Get(chi.URLParam(r, "jobID"))
		if err != nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		if j.Status != job.StatusCompleted {
			WriteError(w, http.StatusBadRequest, "job not complete", "NOT_READY")
			return
		}
		WriteJSON(w, http.StatusOK, j.PreviewData())
	}
}

func downloadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")
		j, err := cfg.Store.Get(id)
		if err != nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		if j.Status != job.StatusCompleted {
			WriteError(w, http.StatusBadRequest, "job not complete", "NOT_READY")
			return
		}
		if j.VideoPath == "" {
			WriteError(w, http.StatusNotFound, "video file not found", "NOT_FOUND")
			return
		}
		if _, err := os.Stat(j.VideoPath); err != nil {
			WriteError(w, http.StatusNotFound, "video file not found", "NOT_FOUND")
			return
		}

		filename := "smartclipper_" + id + ".mp4"
		if err := cfg.Playback.ServeDownload(w, r, j.VideoPath, filename); err != nil {
			cfg.Logger.Error("download serve error", "error", err, "job_id", id)
		}
	}
}

func deleteJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")
		if err := cfg.Store.Delete(id); err != nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		for _, dir := range []string{
			filepath.Join(cfg.OutputDir, id),
			filepath.Join(cfg.UploadsDir, id),
		} {
			if err := os.RemoveAll(dir); err != nil {
				cfg.Logger.Warn("failed to remove job dir", "dir", logging.SanitizePath(dir), "error", err)
			}
		}

		logging.WithJobID(cfg.Logger, id).Info("job deleted")
		WriteJSON(w, http.StatusOK, MessageResponse{Message: "job deleted"})
	}
}

func staticHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		name := chi.URLParam(r, "name")
		if !safePathElement(jobID) || !safePathElement(name) {
			WriteError(w, http.StatusBadRequest, "invalid artifact path", "BAD_REQUEST")
			return
		}

		path := filepath.Join(cfg.OutputDir, jobID, name)
		if err := cfg.Playback.ServeArtifact(w, r, path); err != nil {
			cfg.Logger.Error("artifact serve error", "error", err, "job_id", jobID, "name", name)
		}
	}
}

// safePathElement accepts only a single, non-traversing path component.
func safePathElement(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
