package sqlite

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// ExportJSONL writes every todo, ordered by id, to path as JSON Lines.
// The file is replaced atomically. Returns the number of records written.
func (b *Backend) ExportJSONL(ctx context.Context, path string) (int, error) {
	todos, err := b.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(todos))
	for _, t := range todos {
		data, err := json.Marshal(newTodoJSON(t))
		if err != nil {
			return 0, fmt.Errorf("marshaling todo %d: %w", t.ID, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}

	b.logger.Info("todos exported", "path", path, "count", len(records))
	return len(records), nil
}

// ImportJSONL reads a JSONL export and inserts each record as a new todo.
// Ids in the file are ignored; the store assigns fresh ones. Malformed
// lines and records with a blank title are skipped. All inserts share one
// transaction, so a failed import leaves the store unchanged.
func (b *Backend) ImportJSONL(ctx context.Context, path string) (int, error) {
	raw, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return 0, types.ErrStoreClosed
	}

	today := b.today()
	imported := 0
	err = b.inTx(ctx, func(tx *sql.Tx) error {
		for i, line := range raw {
			var rec todoJSON
			if err := json.Unmarshal(line, &rec); err != nil {
				b.logger.Warn("skipping malformed record", "path", path, "line", i+1, "error", err)
				continue
			}
			if types.ValidateTitle(rec.Title) != nil {
				b.logger.Warn("skipping record with blank title", "path", path, "line", i+1)
				continue
			}
			createdAt, err := rec.createdAt(today)
			if err != nil {
				return fmt.Errorf("record %d created_at: %w", i+1, err)
			}
			dueAt, err := rec.dueAt()
			if err != nil {
				return fmt.Errorf("record %d due_at: %w", i+1, err)
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO "+tableName+" (title, description, created_at, due_at, done) VALUES (?, ?, ?, ?, ?)",
				strings.TrimSpace(rec.Title), rec.Description, formatDate(createdAt), nullableDate(dueAt), rec.Done,
			)
			if err != nil {
				return unavailable("importing todo", err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	b.logger.Info("todos imported", "path", path, "count", imported)
	return imported, nil
}

// readJSONL reads a JSONL file and returns each non-empty line that is
// valid JSON. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	// Lines are read whole; a description has no length cap.
	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 && json.Valid(line) {
			records = append(records, json.RawMessage(line))
		}
		if err != nil {
			return records, nil
		}
	}
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
