package job

import "testing"

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false, want true", s)
		}
	}

	active := []Status{
		StatusPending, StatusDownloading, StatusUploading,
		StatusGeneratingAudio, StatusProcessingVideo, StatusFinalizing,
	}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true, want false", s)
		}
	}
}

func TestAvailableVoices(t *testing.T) {
	voices := AvailableVoices()
	if len(voices) != 3 {
		t.Fatalf("voices = %d, want 3", len(voices))
	}
	if voices[0].ID != "en_US-lessac-medium" || voices[2].Language != "en-GB" {
		t.Errorf("unexpected voice table: %+v", voices)
	}

	// Callers get a copy, not the table itself.
	voices[0].ID = "mutated"
	if AvailableVoices()[0].ID != "en_US-lessac-medium" {
		t.Error("voice table mutated through returned slice")
	}
}

func TestValidVoice(t *testing.T) {
	if !ValidVoice(DefaultVoiceID) {
		t.Errorf("ValidVoice(%q) = false, want true", DefaultVoiceID)
	}
	if ValidVoice("nonexistent-voice") {
		t.Error("ValidVoice accepted an unknown id")
	}
}

func TestJobPreviewData(t *testing.T) {
	j := &Job{
		ID:         "abc",
		AudioPath:  "/data/abc/audio.wav",
		Thumbnails: []string{"/static/abc/thumb_0.jpg"},
		Duration:   8.8,
	}

	p := j.PreviewData()
	if p.AudioURL != "/static/abc/audio.wav" {
		t.Errorf("audio url = %q", p.AudioURL)
	}
	if p.Duration != 8.8 {
		t.Errorf("duration = %v", p.Duration)
	}

	// No audio artifact means the empty sentinel, not a dead link.
	j.AudioPath = ""
	if got := j.PreviewData().AudioURL; got != "" {
		t.Errorf("audio url = %q, want empty", got)
	}
}

func TestSnapshotCarriesError(t *testing.T) {
	j := &Job{Status: StatusFailed, Progress: 45, Message: "Processing failed: decode error", Error: "decode error"}
	snap := j.Snapshot()
	if snap.Error != "decode error" || snap.Status != StatusFailed {
		t.Errorf("snapshot = %+v", snap)
	}
}
