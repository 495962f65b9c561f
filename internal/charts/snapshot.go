package charts

import (
	"os"
	"path/filepath"
	"time"

	xansi "github.com/charmbracelet/x/ansi"
)

// SnapshotText captures the chart's current visual state as plain text. This
// is the terminal counterpart of a browser-side image export: client-local,
// no network round-trip.
func SnapshotText(c Chart, width int) string {
	return xansi.Strip(c.Render(width)) + "\n"
}

func SnapshotFilename(id string, at time.Time) string {
	return id + "-" + at.Format("20060102-150405") + ".txt"
}

// WriteSnapshot serializes the chart's current frame into dir and returns the
// written path.
func WriteSnapshot(dir string, c Chart, width int, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SnapshotFilename(c.ID(), at))
	if err := os.WriteFile(path, []byte(SnapshotText(c, width)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
