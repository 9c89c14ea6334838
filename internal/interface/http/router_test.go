package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ymori/visafaq/internal/domain/auth"
	"github.com/ymori/visafaq/internal/domain/faq"
	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/internal/infra/candidates"
	"github.com/ymori/visafaq/internal/infra/config"
	"github.com/ymori/visafaq/internal/infra/faqrepo"
	"github.com/ymori/visafaq/internal/infra/faqstore"
)

const testAdminKey = "test-admin-key"

func newTestServer(t *testing.T, entries []faq.Entry) *http.Server {
	t.Helper()
	logger := slog.Default()

	repo := faqrepo.NewMemoryRepository()
	require.NoError(t, repo.Save(context.Background(), entries))

	faqSvc := faq.NewService(faq.Config{}, repo, repo.Pending(), faqstore.NewMemoryStore(), logger)
	require.NoError(t, faqSvc.Reload(context.Background()))

	genSvc := generation.NewService(generation.Config{}, faqSvc, candidates.NewRuleBasedSource(), nil, logger)

	hash, err := auth.HashAdminKey(testAdminKey)
	require.NoError(t, err)
	authSvc := auth.NewService(auth.Config{
		AdminKeyHash: hash,
		JWTSecret:    "router-test-secret",
		TokenTTL:     time.Hour,
	}, logger)

	handler := NewHandler(faqSvc, genSvc, authSvc, logger)
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	return NewRouter(cfg, handler, authSvc)
}

func doJSON(t *testing.T, server *http.Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, server *http.Server) string {
	t.Helper()
	rec := doJSON(t, server, http.MethodPost, "/api/v1/admin/token", map[string]string{"adminKey": testAdminKey}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAskDirectAnswer(t *testing.T) {
	server := newTestServer(t, []faq.Entry{
		{Question: "料金について教えて", Answer: "基本料金は10万円です。", Keywords: "料金;費用", Category: "一般"},
	})

	rec := doJSON(t, server, http.MethodPost, "/api/v1/faq/ask", map[string]string{"question": "費用はいくらですか？"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var answer faq.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	require.False(t, answer.NeedsConfirmation)
	require.Equal(t, "基本料金は10万円です。", answer.Text)
	require.NotNil(t, answer.Match)
}

func TestAskFallback(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/faq/ask", map[string]string{"question": "何か"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var answer faq.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	require.Equal(t, faq.NoMatchMessage, answer.Text)
	require.Nil(t, answer.Match)
}

func TestSearchEmptyResultShape(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/faq/search", map[string]string{"question": "何か"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"results": []}`, rec.Body.String())
}

func TestAskRejectsMalformedBody(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/faq/ask", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_request")
}

func TestAdminRequiresToken(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/admin/entries", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/admin/entries", nil, "bogus-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminTokenWrongKey(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/admin/token", map[string]string{"adminKey": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEntryLifecycle(t *testing.T) {
	server := newTestServer(t, nil)
	token := adminToken(t, server)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/admin/entries", faq.Entry{
		Question: "H-1Bビザの抽選はいつですか？",
		Answer:   "毎年3月です。",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/admin/entries", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Entries []faq.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Entries, 1)

	rec = doJSON(t, server, http.MethodPut, "/api/v1/admin/entries/0", map[string]string{"answer": "毎年3月に登録が始まります。"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/admin/entries/0", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/admin/entries/0", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminGenerateAndApprove(t *testing.T) {
	server := newTestServer(t, nil)
	token := adminToken(t, server)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/admin/generate", map[string]any{"count": 2}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var report generation.GenerateReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Accepted, 2)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/admin/pending", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var pendingList struct {
		Pending []faq.PendingEntry `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pendingList))
	require.Len(t, pendingList.Pending, 2)

	id := pendingList.Pending[0].ID
	rec = doJSON(t, server, http.MethodGet, "/api/v1/admin/pending/"+id+"/duplicates", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/v1/admin/pending/"+id+"/approve", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/admin/entries", nil, token)
	var list struct {
		Entries []faq.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Entries, 1)
}

func TestFeedbackRecordsAndImproves(t *testing.T) {
	server := newTestServer(t, []faq.Entry{
		{Question: "料金について教えて", Answer: "旧回答"},
	})

	rec := doJSON(t, server, http.MethodPost, "/api/v1/faq/feedback", map[string]string{
		"userQuestion":    "I-94の確認方法がわかりません",
		"matchedQuestion": "料金について教えて",
		"matchedAnswer":   "旧回答",
	}, "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		Recorded  bool   `json:"recorded"`
		PendingID string `json:"pendingId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Recorded)
	require.NotEmpty(t, resp.PendingID)

	token := adminToken(t, server)
	recs := doJSON(t, server, http.MethodGet, "/api/v1/admin/unsatisfied", nil, token)
	require.Equal(t, http.StatusOK, recs.Code)
	require.Contains(t, recs.Body.String(), "I-94の確認方法がわかりません")
}

func TestTrendingAfterAsk(t *testing.T) {
	server := newTestServer(t, []faq.Entry{
		{Question: "料金について教えて", Answer: "基本料金は10万円です。", Keywords: "料金;費用", Category: "一般"},
	})

	for i := 0; i < 3; i++ {
		rec := doJSON(t, server, http.MethodPost, "/api/v1/faq/ask", map[string]string{"question": "費用はいくらですか？"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, server, http.MethodGet, "/api/v1/faq/trending", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Queries []faq.TrendingQuery `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Queries, 1)
	require.Equal(t, int64(3), resp.Queries[0].Count)
}
