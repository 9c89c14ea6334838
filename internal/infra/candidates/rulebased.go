package candidates

import (
	"context"
	"strings"

	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/pkg/metrics"
)

// ruleEntry pairs a canned candidate with the trigger terms that select it
// when the prompt is an improvement request about a known topic.
type ruleEntry struct {
	triggers  []string
	candidate generation.Candidate
}

var ruleCatalog = []ruleEntry{
	{
		triggers: []string{"i-94", "滞在許可", "滞在期間"},
		candidate: generation.Candidate{
			Question: "I-94の滞在期限はどこで確認できますか？",
			Answer:   "CBPの公式サイトでパスポート情報を入力すると最新のI-94記録と滞在期限を確認できます。入国スタンプではなくI-94の日付が法的な滞在期限です。",
			Keywords: "i-94;滞在期限;確認",
			Category: "入国管理",
		},
	},
	{
		triggers: []string{"h-1b", "h1b", "抽選"},
		candidate: generation.Candidate{
			Question: "H-1Bビザの抽選に外れた場合の選択肢はありますか？",
			Answer:   "翌年度の再申請のほか、L-1ビザやO-1ビザなど抽選のない区分への切り替え、キャップ対象外の雇用主への転職などの選択肢があります。状況に応じてご提案します。",
			Keywords: "h-1b;抽選;代替",
			Category: "就労ビザ",
		},
	},
	{
		triggers: []string{"b-1", "b1", "商用"},
		candidate: generation.Candidate{
			Question: "B-1ビザで許可される商用活動の範囲は？",
			Answer:   "商談、契約交渉、会議や展示会への出席などが対象です。米国内での就労にあたる活動は認められません。",
			Keywords: "b-1;商用;範囲",
			Category: "商用ビザ",
		},
	},
	{
		triggers: []string{"esta"},
		candidate: generation.Candidate{
			Question: "ESTAの有効期限と再申請のタイミングは？",
			Answer:   "ESTAの有効期限は承認から2年間、またはパスポートの失効日のいずれか早い方です。期限切れの前に再申請することをお勧めします。",
			Keywords: "esta;有効期限;再申請",
			Category: "渡航認証",
		},
	},
	{
		triggers: []string{"グリーンカード", "永住権"},
		candidate: generation.Candidate{
			Question: "グリーンカードの申請にはどのくらいの期間がかかりますか？",
			Answer:   "雇用ベースか家族ベースか、また出生国の優先日により大きく異なります。一般的には1年から数年を見込んでください。最新の処理状況を確認のうえご案内します。",
			Keywords: "グリーンカード;永住権;期間",
			Category: "永住権",
		},
	},
	{
		triggers: []string{"面接", "面談"},
		candidate: generation.Candidate{
			Question: "大使館での面接に持参すべき書類は何ですか？",
			Answer:   "パスポート、DS-160確認ページ、面接予約確認書、証明写真、および申請区分ごとの裏付け書類が必要です。事前にチェックリストをお渡しします。",
			Keywords: "面接;書類;大使館",
			Category: "面接対策",
		},
	},
}

// RuleBasedSource serves canned visa-domain candidates without an LLM. It
// backs dev runs without an API key and the degradation path of the ChatGPT
// source.
type RuleBasedSource struct{}

// NewRuleBasedSource constructs the source.
func NewRuleBasedSource() *RuleBasedSource {
	return &RuleBasedSource{}
}

func (s *RuleBasedSource) Next(_ context.Context, input generation.Input) (generation.Candidate, metrics.TokenUsage, error) {
	prompt := strings.ToLower(input.Prompt)
	for _, entry := range ruleCatalog {
		for _, trigger := range entry.triggers {
			if strings.Contains(prompt, trigger) && isImprovement(prompt) {
				return entry.candidate, metrics.TokenUsage{}, nil
			}
		}
	}
	// bulk generation walks the catalog so retries see fresh candidates
	idx := 0
	if input.Attempt > 0 {
		idx = (input.Attempt - 1) % len(ruleCatalog)
	}
	return ruleCatalog[idx].candidate, metrics.TokenUsage{}, nil
}

// isImprovement tells a feedback-rework prompt from a bulk-generation prompt:
// only the former quotes the customer's question, so trigger matching is
// meaningful there. Bulk prompts list existing questions and would match
// almost anything.
func isImprovement(prompt string) bool {
	return strings.Contains(prompt, "満足しませんでした")
}

var _ generation.CandidateSource = (*RuleBasedSource)(nil)
