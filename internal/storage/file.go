package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// fileAdapter persists the document as one JSON file. Saves arrive
// from two goroutines (command handlers and the scheduler), so each
// write goes through its own temp file and the write-rename pair is
// serialized; otherwise interleaved writes on a shared temp path can
// rename a half-mixed document into place.
type fileAdapter struct {
	path string
	log  *zap.Logger

	mu sync.Mutex
}

func openFile(path string, log *zap.Logger) (Adapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileAdapter{path: path, log: log}, nil
}

func (a *fileAdapter) SaveAll(ctx context.Context, doc Document) error {
	_ = ctx
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(a.path), filepath.Base(a.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), a.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// LoadAll reads the document back. A missing file yields an empty
// document. A record that does not decode is skipped with a warning.
// If the document as a whole is unreadable, an empty document is
// written back immediately so the next startup recovers cleanly.
func (a *fileAdapter) LoadAll(ctx context.Context) (Document, error) {
	a.mu.Lock()
	data, err := os.ReadFile(a.path)
	a.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Info("no schedule file yet, starting empty", zap.String("path", a.path))
		return Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		a.log.Warn("schedule file corrupt, resetting to empty",
			zap.String("path", a.path), zap.Error(err))
		doc := Document{}
		if err := a.SaveAll(ctx, doc); err != nil {
			a.log.Error("reset of corrupt schedule file failed", zap.Error(err))
		}
		return doc, nil
	}

	doc := make(Document, len(raw))
	for tenant, entries := range raw {
		doc[tenant] = make(map[string]Record, len(entries))
		for name, blob := range entries {
			var rec Record
			if err := json.Unmarshal(blob, &rec); err != nil {
				a.log.Warn("skipping malformed record",
					zap.String("tenant", tenant), zap.String("boss", name), zap.Error(err))
				continue
			}
			doc[tenant][name] = rec
		}
	}
	return doc, nil
}

func (a *fileAdapter) Close() error { return nil }
