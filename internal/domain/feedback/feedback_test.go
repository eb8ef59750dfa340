package feedback_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/animal"
	"github.com/phrazzld/uranai-api/internal/domain/feedback"
	"github.com/phrazzld/uranai-api/internal/domain/fourpillars"
	"github.com/phrazzld/uranai-api/internal/domain/mbti"
	"github.com/phrazzld/uranai-api/internal/domain/numerology"
	"github.com/phrazzld/uranai-api/internal/domain/sanmei"
)

func stored(t *testing.T, kind domain.SystemType, profile any) *domain.StoredResult {
	t.Helper()
	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	r, err := domain.NewStoredResult(kind, raw, "")
	require.NoError(t, err)
	return r
}

func TestPrompt_PerSystem(t *testing.T) {
	t.Parallel()

	date := domain.MustParseDate("1990-05-15")
	rec := domain.BirthRecord{BirthDate: date, Gender: domain.GenderFemale}

	num, err := numerology.Calculate("Hanako", date)
	require.NoError(t, err)
	fp, err := fourpillars.Calculate(rec)
	require.NoError(t, err)
	sm, err := sanmei.Calculate(rec, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	mb, err := mbti.Calculate("INFP", "")
	require.NoError(t, err)
	an, err := animal.NewCalculator(animal.WithColorPicker(animal.FixedPicker("金"))).Calculate(date, domain.GenderFemale)
	require.NoError(t, err)

	tests := []struct {
		name     string
		kind     domain.SystemType
		profile  any
		contains []string
	}{
		{
			name:    "numerology",
			kind:    domain.SystemNumerology,
			profile: num,
			contains: []string{
				"以下の数秘術診断結果に基づいて",
				"名前: Hanako",
				"1. キャリア開発のための具体的なステップ",
			},
		},
		{
			name:    "four pillars",
			kind:    domain.SystemFourPillars,
			profile: fp,
			contains: []string{
				"以下の四柱推命診断結果に基づいて",
				"生年月日: 1990-05-15",
				"生まれた時間: 不明",
				"強み: " + strings.Join(fp.Strengths, "、"),
			},
		},
		{
			name:    "sanmei",
			kind:    domain.SystemSanmei,
			profile: sm,
			contains: []string{
				"以下の算命学診断結果に基づいて",
				"主星: " + string(sm.MainStar),
				"5. 自己成長のための習慣や活動",
			},
		},
		{
			name:    "mbti",
			kind:    domain.SystemMBTI,
			profile: mb,
			contains: []string{
				"性格タイプ: INFP",
				"1. このMBTIタイプに最適な職場環境",
			},
		},
		{
			name:    "animal",
			kind:    domain.SystemAnimalFortune,
			profile: an,
			contains: []string{
				"動物: " + an.Animal,
				"タイプ: " + an.Type,
				"1. この動物タイプに最適な職場環境",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prompt := feedback.Prompt(stored(t, tt.kind, tt.profile))
			assert.NotContains(t, prompt, "<prompt.")
			assert.NotContains(t, prompt, "<no value>")
			for _, want := range tt.contains {
				assert.Contains(t, prompt, want)
			}
		})
	}
}

func TestPrompt_UnreadableProfileUsesGenericPrompt(t *testing.T) {
	t.Parallel()

	r := stored(t, domain.SystemNumerology, map[string]any{"destinyNumber": "three"})
	prompt := feedback.Prompt(r)

	assert.Contains(t, prompt, "診断タイプ: numerology")
	assert.Contains(t, prompt, `診断結果: {"destinyNumber":"three"}`)
	assert.Contains(t, prompt, "4. 人間関係を向上させるためのヒント")
}

func TestParseSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "numbered headings",
			text: "はじめに\n1. キャリア\n目標を決めましょう。\n\n2. 強み\n  集中力を活かす。\r\n3. 成長\n",
			want: map[string]string{
				"1. キャリア": "目標を決めましょう。",
				"2. 強み":   "集中力を活かす。",
				"3. 成長":   "",
			},
		},
		{
			name: "no headings",
			text: "全体として良い傾向です。",
			want: map[string]string{"フィードバック": "全体として良い傾向です。"},
		},
		{
			name: "number without space is not a heading",
			text: "2024.01 の振り返り",
			want: map[string]string{"フィードバック": "2024.01 の振り返り"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, feedback.ParseSections(tt.text))
		})
	}
}

func TestNewAndFallback(t *testing.T) {
	t.Parallel()

	r := stored(t, domain.SystemMBTI, map[string]string{"personalityType": "INTJ"})
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))

	fb := feedback.New(r, "1. 職場\n静かな環境", at)
	assert.Equal(t, domain.SystemMBTI, fb.Type)
	assert.Equal(t, r.ID, fb.ResultID)
	assert.Equal(t, time.UTC, fb.GeneratedAt.Location())
	assert.Equal(t, map[string]string{"1. 職場": "静かな環境"}, fb.Sections)
	assert.False(t, fb.Error)

	empty := feedback.New(r, "  ", at)
	assert.Equal(t, "申し訳ありませんが、フィードバックを生成できませんでした。", empty.Content)

	fallback := feedback.Fallback(r, at)
	assert.True(t, fallback.Error)
	assert.Equal(t, []string{"エラー"}, keys(fallback.Sections))

	raw, err := json.Marshal(fallback)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"error":true`)

	raw, err = json.Marshal(fb)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"error"`)
}

func TestSystemInstruction(t *testing.T) {
	t.Parallel()
	assert.Contains(t, feedback.SystemInstruction(), "才能開発と自己啓発の専門家")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
