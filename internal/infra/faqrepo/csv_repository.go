package faqrepo

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ymori/visafaq/internal/domain/faq"
)

// The files are shared with spreadsheet tooling, hence the UTF-8 BOM on write
// and the tolerance for it on read.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const createdAtLayout = "2006-01-02 15:04:05"

var (
	entryHeader   = []string{"question", "answer", "keywords", "category"}
	pendingHeader = []string{"id", "question", "answer", "keywords", "category", "created_at", "user_question", "confirmation_request", "comment"}
)

// CSVRepository persists the active knowledge base to a single CSV file. A
// missing file reads as an empty set so first runs need no setup.
type CSVRepository struct {
	path string
}

// NewCSVRepository constructs a repository over the given file path.
func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{path: path}
}

func (r *CSVRepository) Load(context.Context) ([]faq.Entry, error) {
	rows, err := readCSV(r.path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	entries := make([]faq.Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		entry := faq.Entry{
			Question: strings.TrimSpace(row[0]),
			Answer:   strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			entry.Keywords = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			entry.Category = strings.TrimSpace(row[3])
		}
		if entry.Question == "" || entry.Answer == "" {
			continue
		}
		if entry.Category == "" {
			entry.Category = faq.DefaultCategory
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *CSVRepository) Save(_ context.Context, entries []faq.Entry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, entryHeader)
	for _, e := range entries {
		rows = append(rows, []string{e.Question, e.Answer, e.Keywords, e.Category})
	}
	return writeCSV(r.path, rows)
}

// CSVPendingRepository persists the pending queue to its own CSV file.
type CSVPendingRepository struct {
	path string
}

// NewCSVPendingRepository constructs a pending repository over the given path.
func NewCSVPendingRepository(path string) *CSVPendingRepository {
	return &CSVPendingRepository{path: path}
}

func (r *CSVPendingRepository) Load(context.Context) ([]faq.PendingEntry, error) {
	rows, err := readCSV(r.path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	pending := make([]faq.PendingEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		item := faq.PendingEntry{
			ID: strings.TrimSpace(row[0]),
			Entry: faq.Entry{
				Question: strings.TrimSpace(row[1]),
				Answer:   strings.TrimSpace(row[2]),
			},
		}
		if item.ID == "" || item.Question == "" || item.Answer == "" {
			continue
		}
		if len(row) > 3 {
			item.Keywords = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			item.Category = strings.TrimSpace(row[4])
		}
		if item.Category == "" {
			item.Category = faq.DefaultCategory
		}
		if len(row) > 5 {
			if ts, tsErr := time.Parse(createdAtLayout, strings.TrimSpace(row[5])); tsErr == nil {
				item.CreatedAt = ts
			}
		}
		if len(row) > 6 {
			item.OriginQuestion = strings.TrimSpace(row[6])
		}
		if len(row) > 7 {
			item.NeedsConfirmation, _ = strconv.ParseBool(strings.TrimSpace(row[7]))
		}
		if len(row) > 8 {
			item.ReviewerComment = strings.TrimSpace(row[8])
		}
		pending = append(pending, item)
	}
	return pending, nil
}

func (r *CSVPendingRepository) Save(_ context.Context, pending []faq.PendingEntry) error {
	rows := make([][]string, 0, len(pending)+1)
	rows = append(rows, pendingHeader)
	for _, p := range pending {
		createdAt := ""
		if !p.CreatedAt.IsZero() {
			createdAt = p.CreatedAt.Format(createdAtLayout)
		}
		rows = append(rows, []string{
			p.ID,
			p.Question,
			p.Answer,
			p.Keywords,
			p.Category,
			createdAt,
			p.OriginQuestion,
			strconv.FormatBool(p.NeedsConfirmation),
			p.ReviewerComment,
		})
	}
	return writeCSV(r.path, rows)
}

func readCSV(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// writeCSV replaces the file atomically so a crash mid-save never leaves a
// half-written knowledge base behind.
func writeCSV(path string, rows [][]string) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

var (
	_ faq.EntryRepository   = (*CSVRepository)(nil)
	_ faq.PendingRepository = (*CSVPendingRepository)(nil)
)
