package faqrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ymori/visafaq/internal/domain/faq"
)

func TestCSVRepositoryMissingFile(t *testing.T) {
	repo := NewCSVRepository(filepath.Join(t.TempDir(), "faq.csv"))
	entries, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCSVRepositoryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	repo := NewCSVRepository(path)
	ctx := context.Background()

	in := []faq.Entry{
		{Question: "料金について教えて", Answer: "基本料金は10万円です。", Keywords: "料金;費用", Category: "料金"},
		{Question: "改行を,含む\"回答\"", Answer: "1行目\n2行目", Category: "一般"},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)

	// written files start with a BOM for spreadsheet tooling
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(raw) > 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF)
}

func TestCSVRepositoryToleratesBOMAndBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	content := "\xEF\xBB\xBFquestion,answer,keywords,category\n" +
		"質問1,回答1,タグ,一般\n" +
		",,,\n" +
		"質問2,回答2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := NewCSVRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "質問1", entries[0].Question)
	// short rows default the missing category
	require.Equal(t, faq.DefaultCategory, entries[1].Category)
}

func TestCSVPendingRepositoryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.csv")
	repo := NewCSVPendingRepository(path)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	in := []faq.PendingEntry{
		{
			Entry:             faq.Entry{Question: "生成質問", Answer: "生成回答", Keywords: "タグ", Category: "AI生成"},
			ID:                "abcd1234",
			CreatedAt:         created,
			OriginQuestion:    "元の質問",
			NeedsConfirmation: true,
			ReviewerComment:   "要確認",
		},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "abcd1234", out[0].ID)
	require.Equal(t, "元の質問", out[0].OriginQuestion)
	require.True(t, out[0].NeedsConfirmation)
	require.Equal(t, "要確認", out[0].ReviewerComment)
	require.True(t, out[0].CreatedAt.Equal(created))
}

func TestCSVRepositorySaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	repo := NewCSVRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []faq.Entry{{Question: "Q1", Answer: "A1", Category: "一般"}}))
	require.NoError(t, repo.Save(ctx, []faq.Entry{{Question: "Q2", Answer: "A2", Category: "一般"}}))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Q2", out[0].Question)
}
