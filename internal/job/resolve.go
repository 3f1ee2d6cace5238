package job

import "strings"

// ResolvePreview rewrites the relative resource paths of a raw preview
// descriptor into absolute URLs under baseURL. Absolute entries and the
// empty-audio sentinel pass through untouched. Called once, after the job
// reaches its success state.
func ResolvePreview(raw Preview, baseURL string) Preview {
	out := Preview{
		Thumbnails: make([]string, len(raw.Thumbnails)),
		AudioURL:   raw.AudioURL,
		Duration:   raw.Duration,
	}
	for i, thumb := range raw.Thumbnails {
		out.Thumbnails[i] = resolveRef(thumb, baseURL)
	}
	if raw.AudioURL != "" {
		out.AudioURL = resolveRef(raw.AudioURL, baseURL)
	}
	return out
}

func resolveRef(ref, baseURL string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return base + ref
}
