package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openregistry/prodex/internal/domain/professional"
)

// snapshotFile is the prebuilt index format written by the offline builder
// (cmd/prodex-index) and preferred by the dataset cache over raw CSV
// ingestion.
type snapshotFile struct {
	GeneratedAt time.Time                    `json:"generatedAt"`
	Records     []*professional.Professional `json:"records"`
}

// ReadSnapshot loads a prebuilt index. A missing file returns (nil, false,
// nil): the caller falls back to the ingestion pipeline. A present but
// unreadable snapshot is an error so a corrupt build does not silently serve
// an empty dataset.
func ReadSnapshot(path string) ([]*professional.Professional, bool, error) {
	if path == "" {
		return nil, false, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if len(f.Records) == 0 {
		// An empty snapshot is treated as absent, not as an empty dataset.
		return nil, false, nil
	}

	return f.Records, true, nil
}

// WriteSnapshot writes the prebuilt index, creating parent directories as
// needed.
func WriteSnapshot(path string, records []*professional.Professional) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.Marshal(snapshotFile{GeneratedAt: time.Now().UTC(), Records: records})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}
