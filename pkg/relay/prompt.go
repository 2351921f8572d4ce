package relay

import (
	"fmt"
	"strings"

	// Packages
	extract "github.com/newjec/bizbrain/pkg/extract"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// DefaultQueries are the templated search queries fanned out per
// analysis, one per angle of the deck. %s is the company name.
var DefaultQueries = []string{
	"%s 企業概要 会社概要 事業内容 売上高",
	"%s 財務諸表 決算 業績 営業利益 純利益",
	"%s 競合 業界 市場シェア ランキング",
	"%s 強み 弱み 課題 問題点",
	"%s 戦略 計画 投資 設備投資",
	"%s ニュース 発表 決算説明会 IR",
	"%s リスク 課題 将来性 見通し",
}

const promptTemplate = `あなたは戦略コンサルティングファームのシニアパートナーです。「%s」の企業分析レポートを作成してください。

=== 検索結果 ===
%s

=== 出力フォーマット ===
以下の見出しを使い、各セクションを「## 見出し」の行で開始して日本語で記述してください：

## %s
設立背景、事業内容、規模、特徴

## %s
売上高、営業利益、収益構造、財務健全性の評価

## %s
強み、弱み、機会、脅威

## %s
主要競合との比較、市場ポジション、差別化要因

## %s
中期経営計画、投資、成長戦略

## %s
直近3ヶ月の重要ニュース・発表・提携

## %s
経営リスク、業界リスク、将来の見通し

**注意事項:**
- 具体的な数値やデータを優先してください
- 曖昧な表現は避け、事実ベースで記載してください
- 最新の情報を優先してください（検索結果の日付を確認）
- すべての内容を日本語で出力してください`

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// renderQueries substitutes the company name into the query templates
func renderQueries(templates []string, companyName string) []string {
	queries := make([]string, 0, len(templates))
	for _, template := range templates {
		queries = append(queries, fmt.Sprintf(template, companyName))
	}
	return queries
}

// buildPrompt embeds the merged search results into the analysis prompt
func buildPrompt(companyName string, results []schema.SearchResult) string {
	var context strings.Builder
	for i, result := range results {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "【%s】\n%s\n出典: %s", result.Title, result.Content, result.Url)
	}
	return fmt.Sprintf(promptTemplate,
		companyName,
		context.String(),
		extract.HeadingOverview,
		extract.HeadingFinancials,
		extract.HeadingSWOT,
		extract.HeadingCompetitors,
		extract.HeadingStrategy,
		extract.HeadingNews,
		extract.HeadingRisk,
	)
}
