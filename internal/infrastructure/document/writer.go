// Package document renders the assembled ticks as a JSON document on disk.
package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/assembler"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

// Writer writes the tick document to a file. The file is replaced atomically
// so readers never observe a partial document.
type Writer struct {
	path   string
	logger logger.Interface
}

// NewWriter creates a writer targeting path.
func NewWriter(path string, logger logger.Interface) *Writer {
	return &Writer{path: path, logger: logger}
}

// Name implements tickv1.Sink.
func (w *Writer) Name() string {
	return "json"
}

// Write renders ticks in the given order and replaces the target file.
func (w *Writer) Write(ctx context.Context, ticks []tickv1.Tick) error {
	data, err := Render(ticks)
	if err != nil {
		return errors.NewErrorDetails("failed to render tick document", string(errors.DocumentWriteError), "render").WithCause(err)
	}

	if err := writeAtomic(w.path, data); err != nil {
		return errors.NewErrorDetailsWithObject("failed to write tick document", string(errors.DocumentWriteError), "write", w.path).WithCause(err)
	}

	w.logger.InfoContext(ctx, "tick document written",
		logger.Field{Key: "path", Value: w.path},
		logger.Field{Key: "records", Value: len(ticks)},
	)
	return nil
}

// Render returns the tab-indented JSON array of records for ticks.
func Render(ticks []tickv1.Tick) ([]byte, error) {
	return json.MarshalIndent(assembler.Records(ticks), "", "\t")
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
