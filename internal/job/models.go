package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartclipper/smartclip/internal/script"
)

// Status is the job lifecycle vocabulary reported by the server and observed
// by clients. Only the server mutates a job's status.
type Status string

const (
	StatusPending         Status = "pending"
	StatusDownloading     Status = "downloading"
	StatusUploading       Status = "uploading"
	StatusGeneratingAudio Status = "generating_audio"
	StatusProcessingVideo Status = "processing_video"
	StatusFinalizing      Status = "finalizing"
	StatusCompleted       Status = "completed"
	StatusFailed          Status = "failed"
)

// IsTerminal reports whether no further status change can follow.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is one observed snapshot of a job's state. Error is set only when
// Status is StatusFailed.
type Progress struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}

// Preview describes the artifacts of a completed job. Paths may be relative
// to the server base URL until passed through ResolvePreview. An empty
// AudioURL means no audio artifact exists.
type Preview struct {
	Thumbnails []string `json:"thumbnails"`
	AudioURL   string   `json:"audio_url"`
	Duration   float64  `json:"duration"`
}

// Voice is one selectable TTS voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// DefaultVoiceID is used when the caller does not pick a voice.
const DefaultVoiceID = "en_US-lessac-medium"

var voiceCatalog = []Voice{
	{ID: "en_US-lessac-medium", Name: "Lessac (US Male)", Language: "en-US"},
	{ID: "en_US-amy-medium", Name: "Amy (US Female)", Language: "en-US"},
	{ID: "en_GB-alan-medium", Name: "Alan (UK Male)", Language: "en-GB"},
}

// AvailableVoices returns the built-in voice table. The server treats it as
// the authoritative catalog; clients substitute it when the live voice fetch
// fails. Returns a copy so callers cannot mutate the table.
func AvailableVoices() []Voice {
	out := make([]Voice, len(voiceCatalog))
	copy(out, voiceCatalog)
	return out
}

// ValidVoice reports whether id names a voice in the catalog.
func ValidVoice(id string) bool {
	for _, v := range voiceCatalog {
		if v.ID == id {
			return true
		}
	}
	return false
}

// Job is the server-side record of one clip generation job.
type Job struct {
	ID       string
	VideoURL string // source submitted by reference
	Upload   string // source stored from an uploaded blob
	VoiceID  string
	Segments []script.Segment

	Status   Status
	Progress int
	Message  string
	Error    string

	// Artifact locations, filled in as processing completes. Thumbnails hold
	// server-relative URLs; VideoPath and AudioPath are filesystem paths.
	VideoPath  string
	AudioPath  string
	Thumbnails []string
	Duration   float64

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// NewID returns a fresh job identifier.
func NewID() string {
	return uuid.NewString()
}

// Snapshot returns the job's current progress as seen by status polls.
func (j *Job) Snapshot() Progress {
	return Progress{
		Status:   j.Status,
		Progress: j.Progress,
		Message:  j.Message,
		Error:    j.Error,
	}
}

// PreviewData builds the raw (unresolved) preview descriptor for a completed
// job. Resource paths are relative; clients resolve them against the server
// base URL.
func (j *Job) PreviewData() Preview {
	audio := ""
	if j.AudioPath != "" {
		audio = "/static/" + j.ID + "/audio.wav"
	}
	return Preview{
		Thumbnails: append([]string(nil), j.Thumbnails...),
		AudioURL:   audio,
		Duration:   j.Duration,
	}
}
