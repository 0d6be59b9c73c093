// Package json exports and imports archived scripts as versioned JSON
// documents.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/reel"
)

// envelope is the v1 wire format for an exported script.
type envelope struct {
	Version int       `json:"version"`
	Record  recordDTO `json:"record"`
}

type recordDTO struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ProjectID string    `json:"project_id"`
	Prompt    string    `json:"prompt"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalRecord serializes r in v1 envelope format.
func MarshalRecord(r *reel.ScriptRecord) ([]byte, error) {
	env := envelope{
		Version: 1,
		Record: recordDTO{
			ID:        r.ID,
			SessionID: r.SessionID,
			ProjectID: r.ProjectID,
			Prompt:    r.Prompt,
			Title:     r.Title,
			Content:   r.Content,
			State:     r.State.String(),
			CreatedAt: r.CreatedAt,
		},
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalRecord deserializes a record from v1 envelope format. Only
// terminal states are accepted since only finished sessions are archived.
func UnmarshalRecord(data []byte) (*reel.ScriptRecord, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	dto := env.Record
	state, ok := reel.ParseStreamState(dto.State)
	if !ok || !state.Terminal() {
		return nil, fmt.Errorf("record state %q: %w", dto.State, reel.ErrValidation)
	}
	return &reel.ScriptRecord{
		ID:        dto.ID,
		SessionID: dto.SessionID,
		ProjectID: dto.ProjectID,
		Prompt:    dto.Prompt,
		Title:     dto.Title,
		Content:   dto.Content,
		State:     state,
		CreatedAt: dto.CreatedAt,
	}, nil
}

// Save writes r to a JSON file, creating parent directories as needed.
func Save(path string, r *reel.ScriptRecord) error {
	data, err := MarshalRecord(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a record from a JSON file.
func Load(path string) (*reel.ScriptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalRecord(data)
}
