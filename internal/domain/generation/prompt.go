package generation

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/ymori/visafaq/internal/domain/faq"
)

const promptEncoding = "cl100k_base"

// buildPrompt assembles the generation prompt: instructions, the existing
// entries the candidate must not repeat, and an optional reference blob.
func buildPrompt(existing []faq.Entry, category, reference string, entryLimit, tokenBudget int) string {
	var b strings.Builder
	b.WriteString("あなたは米国ビザ申請コンサルティング会社のFAQ作成担当者です。\n")
	b.WriteString("顧客から実際に寄せられそうな質問とその回答を1件だけ作成してください。\n\n")

	if category != "" {
		fmt.Fprintf(&b, "カテゴリ「%s」に関する質問にしてください。\n\n", category)
	}

	if len(existing) > 0 {
		b.WriteString("既存のFAQと重複しない新しい質問を作成してください。既存の質問:\n")
		for i, e := range existing {
			if i >= entryLimit {
				break
			}
			fmt.Fprintf(&b, "- %s\n", e.Question)
		}
		b.WriteString("\n")
	}

	if reference != "" {
		b.WriteString("以下の参考資料の内容に基づいて回答を作成してください:\n")
		b.WriteString(truncateToTokenBudget(reference, tokenBudget))
		b.WriteString("\n\n")
	}

	b.WriteString("次のJSON形式のみで出力してください:\n")
	b.WriteString(`{"question": "質問文", "answer": "回答文", "keywords": "キーワード1;キーワード2", "category": "カテゴリ名"}`)
	return b.String()
}

// buildImprovementPrompt asks for a better answer to a question the user was
// not satisfied with.
func buildImprovementPrompt(rec faq.UnsatisfiedRecord) string {
	var b strings.Builder
	b.WriteString("あなたは米国ビザ申請コンサルティング会社のFAQ作成担当者です。\n")
	b.WriteString("以下の質問に対して既存の回答では顧客が満足しませんでした。より的確な質問と回答のペアを1件作成してください。\n\n")
	fmt.Fprintf(&b, "顧客の質問: %s\n", rec.UserQuestion)
	if rec.MatchedQuestion != "" {
		fmt.Fprintf(&b, "マッチした既存の質問: %s\n", rec.MatchedQuestion)
	}
	if rec.MatchedAnswer != "" {
		fmt.Fprintf(&b, "不十分だった回答: %s\n", rec.MatchedAnswer)
	}
	b.WriteString("\n次のJSON形式のみで出力してください:\n")
	b.WriteString(`{"question": "質問文", "answer": "回答文", "keywords": "キーワード1;キーワード2", "category": "カテゴリ名"}`)
	return b.String()
}

// truncateToTokenBudget trims text to at most budget model tokens. When the
// tokenizer is unavailable it falls back to a rough two-runes-per-token cut.
func truncateToTokenBudget(text string, budget int) string {
	if budget <= 0 || text == "" {
		return text
	}
	enc, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		runes := []rune(text)
		if limit := budget * 2; len(runes) > limit {
			return string(runes[:limit])
		}
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return enc.Decode(tokens[:budget])
}
