package playback

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Streamer is the artifact serving contract used by the API layer.
type Streamer interface {
	// ServeArtifact streams a file inline, honouring Range requests.
	ServeArtifact(w http.ResponseWriter, r *http.Request, path string) error

	// ServeDownload streams a file as an attachment under the given name.
	ServeDownload(w http.ResponseWriter, r *http.Request, path, filename string) error
}

type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

func (s *Server) ServeArtifact(w http.ResponseWriter, r *http.Request, path string) error {
	return s.serve(w, r, path, "")
}

func (s *Server) ServeDownload(w http.ResponseWriter, r *http.Request, path, filename string) error {
	return s.serve(w, r, path, filename)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, path, attachment string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentTypeFor(path))
	if attachment != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment))
	}

	parsed, err := ParseRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	// An unparseable Range header is ignored and the whole artifact served,
	// which is what ParseRange's nil result already expresses.
	if err != nil && err != ErrInvalidRange {
		return err
	}

	if parsed == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", parsed.Length()))
	w.Header().Set("Content-Range", parsed.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(parsed.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	io.CopyN(w, file, parsed.Length())
	return nil
}

// contentTypeFor resolves the MIME type for our known artifact kinds without
// relying on the host's mime database.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return "video/mp4"
	case ".wav":
		return "audio/wav"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
