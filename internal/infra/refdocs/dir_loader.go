package refdocs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ymori/visafaq/internal/domain/generation"
)

// DirLoader assembles the reference blob from files in a local directory.
// Files are read in name order; unreadable ones are logged and skipped.
type DirLoader struct {
	dir    string
	logger *slog.Logger
}

// NewDirLoader constructs a loader over the given directory.
func NewDirLoader(dir string, logger *slog.Logger) *DirLoader {
	return &DirLoader{dir: dir, logger: logger.With("component", "refdocs.dir")}
}

func (l *DirLoader) Load(context.Context) (string, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var docs []document
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !supported(dirEntry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.dir, dirEntry.Name()))
		if err != nil {
			l.logger.Warn("reference file unreadable", "file", dirEntry.Name(), "error", err)
			continue
		}
		text, err := extractText(dirEntry.Name(), data)
		if err != nil {
			l.logger.Warn("reference file skipped", "file", dirEntry.Name(), "error", err)
			continue
		}
		docs = append(docs, document{name: dirEntry.Name(), text: text})
	}
	return assemble(docs), nil
}

var _ generation.ReferenceLoader = (*DirLoader)(nil)
