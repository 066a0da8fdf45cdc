// Package session bridges the transport's local session folder and the
// durable session store, so a fresh process can resume a previous login.
package session

import (
	"chatbot/contract"
	"chatbot/domain"
	"chatbot/errors"
	"chatbot/observability"
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// EmptyDirMarker ends the filename of the record standing for an empty directory.
const EmptyDirMarker = ".empty-dir"

// Gateway downloads the session credential set before the transport
// connects and uploads it after the transport is torn down.
type Gateway struct {
	log       *slog.Logger
	store     contract.SessionStore
	metrics   *observability.Metrics
	completed atomic.Bool
}

func NewGateway(log *slog.Logger, store contract.SessionStore, metrics *observability.Metrics) *Gateway {
	return &Gateway{log: log, store: store, metrics: metrics}
}

// CollectionName is the logical name of a local folder in the store.
func CollectionName(localFolder string) string {
	return filepath.Base(filepath.Clean(localFolder))
}

// DownloadCompleted reports whether Download succeeded in this process.
func (g *Gateway) DownloadCompleted() bool {
	return g.completed.Load()
}

// Download clears localFolder and rebuilds it from the stored records.
func (g *Gateway) Download(ctx context.Context, localFolder string) (err error) {
	defer func() { g.metrics.IncrementSessionSync("download", err) }()

	collection := CollectionName(localFolder)
	g.log.Info("Downloading session files", "folder", localFolder, "collection", collection)

	records, err := g.store.Find(ctx, collection)
	if err != nil {
		return fmt.Errorf("fetch session records: %w", err)
	}

	if err = os.RemoveAll(localFolder); err != nil {
		return fmt.Errorf("clear %s: %w", localFolder, err)
	}
	if err = os.MkdirAll(localFolder, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", localFolder, err)
	}

	for _, record := range records {
		if err = restore(localFolder, record); err != nil {
			return err
		}
		g.log.Debug("Downloaded session file", "filename", record.Filename)
	}

	g.completed.Store(true)
	g.log.Info(fmt.Sprintf("%d session records downloaded", len(records)))
	return nil
}

func restore(localFolder string, record domain.SessionRecord) error {
	rel, err := safeRelative(record.Filename)
	if err != nil {
		return err
	}

	if path.Base(rel) == EmptyDirMarker {
		dir := filepath.Join(localFolder, filepath.FromSlash(path.Dir(rel)))
		return os.MkdirAll(dir, 0o700)
	}

	content, err := base64.StdEncoding.DecodeString(record.ContentBase64)
	if err != nil {
		return fmt.Errorf("decode %s: %w", record.Filename, err)
	}
	target := filepath.Join(localFolder, filepath.FromSlash(rel))
	if err = os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return fmt.Errorf("create parent of %s: %w", record.Filename, err)
	}
	if err = os.WriteFile(target, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", record.Filename, err)
	}
	return nil
}

// safeRelative rejects filenames that would land outside the local folder.
func safeRelative(filename string) (string, error) {
	if filename == "" || strings.HasPrefix(filename, "/") || strings.Contains(filename, "\\") {
		return "", fmt.Errorf("%w: %q", errors.ErrUnsafeRecordPath, filename)
	}
	cleaned := path.Clean(filename)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", errors.ErrUnsafeRecordPath, filename)
	}
	return cleaned, nil
}

// Upload replaces the whole stored record set with the content of localFolder.
// It refuses to run unless a download completed in this process, so that a
// shutdown racing startup never overwrites a good session with a partial one.
func (g *Gateway) Upload(ctx context.Context, localFolder string) (err error) {
	if !g.DownloadCompleted() {
		return errors.ErrDownloadNotCompleted
	}
	defer func() { g.metrics.IncrementSessionSync("upload", err) }()

	collection := CollectionName(localFolder)
	g.log.Info("Uploading session files", "folder", localFolder, "collection", collection)

	records, err := Snapshot(localFolder)
	if err != nil {
		return err
	}

	if err = Replace(ctx, g.store, collection, records); err != nil {
		return err
	}

	g.log.Info(fmt.Sprintf("%d session records uploaded", len(records)))
	return nil
}

// Replace drops the collection then inserts records in its place.
func Replace(ctx context.Context, store contract.SessionStore, collection string, records []domain.SessionRecord) error {
	if err := store.Drop(ctx, collection); err != nil {
		return fmt.Errorf("drop %s: %w", collection, err)
	}
	if err := store.InsertMany(ctx, collection, records); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// Snapshot walks localFolder and encodes every file as a record. An empty
// directory, the root included, becomes a single marker record.
func Snapshot(localFolder string) ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	err := filepath.WalkDir(localFolder, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(localFolder, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				records = append(records, domain.SessionRecord{Filename: path.Join(rel, EmptyDirMarker)})
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		records = append(records, domain.SessionRecord{
			Filename:      rel,
			ContentBase64: base64.StdEncoding.EncodeToString(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", localFolder, err)
	}
	return records, nil
}
