package capture

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/wbrown/ansify"
)

func TestParseSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		source string
		want   interface{}
	}{
		{"0", 0},
		{"2", 2},
		{"-1", "-1"},
		{"video.mp4", "video.mp4"},
		{"rtsp://camera/stream", "rtsp://camera/stream"},
	}
	for _, tt := range tests {
		if got := parseSource(tt.source); got != tt.want {
			t.Errorf("parseSource(%q): expected %v, got %v", tt.source, tt.want, got)
		}
	}
}

func TestOpenMissingVideo(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "missing.avi"))
	if !errors.Is(err, ansify.ErrCapture) {
		t.Errorf("Expected ErrCapture, got %v", err)
	}
}
