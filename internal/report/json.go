package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

// Snapshot is the JSON document written by `profinfo dump --format json`.
type Snapshot struct {
	Source  string            `json:"source,omitempty"`
	Summary Summary           `json:"summary"`
	Session *profinfo.Session `json:"session"`
}

// WriteJSON encodes a snapshot of s, labelled with source.
func WriteJSON(w io.Writer, source string, s *profinfo.Session, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(Snapshot{
		Source:  source,
		Summary: Summarize(s),
		Session: s,
	})
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
