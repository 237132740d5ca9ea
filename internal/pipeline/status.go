package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// WriteStatus persists the status descriptor for a project.
func WriteStatus(path string, desc types.StatusDescriptor) error {
	desc.UpdatedAt = types.UTCNow()
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadStatus loads a persisted status descriptor. A missing or invalid
// descriptor reports status pending, the state of a project no run has
// touched yet.
func ReadStatus(path string) types.StatusDescriptor {
	pending := types.StatusDescriptor{Status: types.StatusPending}
	data, err := os.ReadFile(path)
	if err != nil {
		return pending
	}
	var desc types.StatusDescriptor
	if err := json.Unmarshal(data, &desc); err != nil || !desc.Status.Valid() {
		return pending
	}
	return desc
}
