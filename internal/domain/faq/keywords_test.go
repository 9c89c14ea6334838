package faq

import (
	"math"
	"testing"
)

func TestKeywordScoreTagBonus(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		keywords string
		want     float64
	}{
		// the money category bonus also fires because the tags field
		// carries money vocabulary
		{name: "single tag match", user: "費用はいくらですか？", keywords: "費用", want: tagBonus + moneyBonus},
		{name: "tags stack", user: "費用と料金について", keywords: "料金;費用", want: 2*tagBonus + moneyBonus},
		{name: "no tag match", user: "面接の服装は？", keywords: "料金;費用", want: 0},
		{name: "empty keywords", user: "費用はいくらですか？", keywords: "", want: 0},
		{name: "blank tags skipped", user: "何か", keywords: " ; ; ", want: 0},
	}
	for _, tc := range cases {
		// entry question with no shared vocabulary so only tags contribute
		got := keywordScore(tc.user, "zzz", tc.keywords)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestKeywordScoreCategories(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		entryQ   string
		keywords string
		want     float64
	}{
		{name: "money both sides", user: "お金はどのくらい", entryQ: "価格の目安", want: moneyBonus},
		{name: "money via tags", user: "お金はどのくらい", entryQ: "zzz", keywords: "コスト", want: moneyBonus},
		{name: "money question time entry penalised", user: "お金はどのくらい", entryQ: "何日かかりますか", want: -crossPenalty},
		{name: "time question money entry penalised", user: "何週間かかりますか", entryQ: "価格の目安", want: -crossPenalty},
		{name: "interview", user: "面談の流れ", entryQ: "インタビューの流れ", want: interviewBonus},
		{name: "document", user: "資料の用意", entryQ: "準備するもの", want: documentBonus},
		{name: "service", user: "どこまでやってくれる", entryQ: "サポートの範囲", want: serviceBonus},
		{name: "no category overlap", user: "お金はどのくらい", entryQ: "zzz", want: 0},
	}
	for _, tc := range cases {
		got := keywordScore(tc.user, tc.entryQ, tc.keywords)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestKeywordScoreAdditive(t *testing.T) {
	user := "費用はいくらですか？"
	entryQ := "zzz"
	without := keywordScore(user, entryQ, "料金")
	with := keywordScore(user, entryQ, "料金;費用")
	if with < without {
		t.Fatalf("adding a matching tag must never decrease the score: %v < %v", with, without)
	}
	if with-without < tagBonus-1e-12 {
		t.Fatalf("matching tag should add %v, got delta %v", tagBonus, with-without)
	}
}

func TestKeywordScoreUnclamped(t *testing.T) {
	// four stacking tags plus a category bonus pushes well past 1.0
	user := "料金と費用と金額と価格について"
	got := keywordScore(user, "値段の一覧", "料金;費用;金額;価格")
	if got <= 1.0 {
		t.Fatalf("score should exceed 1.0, got %v", got)
	}
}

func TestExtractImportantKeywords(t *testing.T) {
	cases := []struct {
		q    string
		want []string
	}{
		{q: "H-1Bビザの必要書類は？", want: []string{"h-1b", "書類"}},
		{q: "グリーンカードの申請費用", want: []string{"グリーンカード", "申請", "費用"}},
		{q: "こんにちは", want: nil},
	}
	for _, tc := range cases {
		got := extractImportantKeywords(tc.q)
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v terms (%v), want %v", tc.q, len(got), got, len(tc.want))
		}
		for _, term := range tc.want {
			if _, ok := got[term]; !ok {
				t.Fatalf("%q: missing term %q in %v", tc.q, term, got)
			}
		}
	}
}

func TestKeywordSetsEqual(t *testing.T) {
	a := extractImportantKeywords("H-1Bビザの必要書類は？")
	b := extractImportantKeywords("H-1Bビザで必要な書類は何ですか？")
	if !keywordSetsEqual(a, b) {
		t.Fatalf("sets should be equal: %v vs %v", a, b)
	}
	c := extractImportantKeywords("F-1ビザの必要書類は？")
	if keywordSetsEqual(a, c) {
		t.Fatalf("different visa types must not compare equal: %v vs %v", a, c)
	}
}
