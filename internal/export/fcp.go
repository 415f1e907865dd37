// Package export writes editor asset lists in formats video editors import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultSegmentDuration is the length in seconds of each labeled segment.
const DefaultSegmentDuration = 10

// Header is the first row of a label file.
var Header = []string{"Start", "End", "Keyword", "Title", "Thumbnail"}

// Label is one asset placed on the timeline.
type Label struct {
	Keyword   string
	Title     string
	Thumbnail string
}

// Timecode formats seconds as HH:MM:SS.
func Timecode(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// WriteFCPLabels writes one row per label, placing label i on the segment
// [i*segment, (i+1)*segment).
func WriteFCPLabels(w io.Writer, labels []Label, segment int) error {
	if segment <= 0 {
		segment = DefaultSegmentDuration
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i, l := range labels {
		row := []string{
			Timecode(i * segment),
			Timecode((i + 1) * segment),
			l.Keyword,
			l.Title,
			l.Thumbnail,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFCPLabelsFile writes the labels to path, creating parent directories.
func WriteFCPLabelsFile(path string, labels []Label, segment int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFCPLabels(f, labels, segment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
