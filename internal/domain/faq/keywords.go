package faq

import "strings"

// Score contributions. The exact values are tuned against the production
// knowledge base; changing any of them changes observable answers.
const (
	// tagBonus is granted for every per-entry keyword tag found inside the
	// user question. Tags are authored per entry and trusted more than
	// vocabulary the questions merely happen to share.
	tagBonus = 0.8

	moneyBonus     = 0.3
	timeBonus      = 0.3
	interviewBonus = 0.3
	documentBonus  = 0.2
	serviceBonus   = 0.2

	// crossPenalty discourages answering a fee question with a duration
	// entry and vice versa. Only the money/time pair carries a penalty.
	crossPenalty = 0.2
)

// Domain vocabulary for the five category heuristics.
var (
	moneyTerms     = []string{"料金", "費用", "お金", "金額", "価格", "値段", "コスト"}
	timeTerms      = []string{"時間", "期間", "日数", "いつ", "何日", "何週間", "何か月"}
	interviewTerms = []string{"面接", "面談", "インタビュー"}
	documentTerms  = []string{"書類", "必要", "資料", "ドキュメント", "準備"}
	serviceTerms   = []string{"サービス", "範囲", "サポート", "どこまで"}
)

// keywordScore computes the heuristic bonus/penalty for matching userQuestion
// against an entry's question text and its semicolon-delimited keyword tags.
// The result is intentionally unclamped: several stacking tag matches can
// push it well past 1.0, and the cross penalty can drive it negative.
func keywordScore(userQuestion, entryQuestion, entryKeywords string) float64 {
	userLower := strings.ToLower(userQuestion)
	entryLower := strings.ToLower(entryQuestion)
	tagsLower := strings.ToLower(entryKeywords)

	score := 0.0

	for _, tag := range strings.Split(tagsLower, ";") {
		tag = strings.TrimSpace(tag)
		if tag != "" && strings.Contains(userLower, tag) {
			score += tagBonus
		}
	}

	if containsAny(userLower, moneyTerms) {
		switch {
		case containsAny(entryLower, moneyTerms) || containsAny(tagsLower, moneyTerms):
			score += moneyBonus
		case containsAny(entryLower, timeTerms):
			score -= crossPenalty
		}
	}

	if containsAny(userLower, timeTerms) {
		switch {
		case containsAny(entryLower, timeTerms) || containsAny(tagsLower, timeTerms):
			score += timeBonus
		case containsAny(entryLower, moneyTerms):
			score -= crossPenalty
		}
	}

	if containsAny(userLower, interviewTerms) {
		if containsAny(entryLower, interviewTerms) || containsAny(tagsLower, interviewTerms) {
			score += interviewBonus
		}
	}

	if containsAny(userLower, documentTerms) {
		if containsAny(entryLower, documentTerms) || containsAny(tagsLower, documentTerms) {
			score += documentBonus
		}
	}

	if containsAny(userLower, serviceTerms) {
		if containsAny(entryLower, serviceTerms) || containsAny(tagsLower, serviceTerms) {
			score += serviceBonus
		}
	}

	return score
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// importantTerms is the fixed vocabulary used by the duplicate detector to
// tell near-paraphrases about different topics apart: visa-type codes,
// purpose-of-stay terms, country names and a handful of domain terms.
var importantTerms = []string{
	// visa types and immigration documents
	"h-1b", "h1b", "l-1", "l1", "f-1", "f1", "j-1", "j1",
	"b-1", "b1", "b-2", "b2", "e-2", "e2", "o-1", "o1",
	"i-94", "esta", "グリーンカード", "永住権",
	// purpose of stay
	"就労", "留学", "観光", "商用", "研修", "駐在", "転勤", "結婚",
	// countries
	"アメリカ", "米国", "日本", "カナダ", "メキシコ",
	// recurring domain terms
	"料金", "費用", "期間", "書類", "面接", "申請", "更新", "延長",
	"抽選", "家族", "配偶者", "子供",
}

// extractImportantKeywords returns the set of important terms appearing in
// the question, matched as case-insensitive substrings.
func extractImportantKeywords(question string) map[string]struct{} {
	lower := strings.ToLower(question)
	found := make(map[string]struct{})
	for _, term := range importantTerms {
		if strings.Contains(lower, term) {
			found[term] = struct{}{}
		}
	}
	return found
}

func keywordSetsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for term := range a {
		if _, ok := b[term]; !ok {
			return false
		}
	}
	return true
}
