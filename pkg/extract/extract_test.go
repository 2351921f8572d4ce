package extract_test

import (
	"strings"
	"testing"

	"github.com/newjec/bizbrain/pkg/extract"
	"github.com/stretchr/testify/assert"
)

const fullText = "分析を開始します。\n" +
	"## 会社概要\nAcme Corpは大手メーカーです。\n" +
	"## 財務分析\n売上高は増加傾向。\n" +
	"## SWOT分析\n強み: ブランド力\n弱み: 海外展開\n" +
	"## 最新動向\n新工場を建設。\n"

func TestSections(t *testing.T) {
	assert := assert.New(t)

	extractor := extract.New(nil)
	sections := extractor.Sections(fullText)
	assert.Len(sections, 4)
	assert.Equal("Acme Corpは大手メーカーです。", sections["会社概要"])
	assert.Equal("強み: ブランド力\n弱み: 海外展開", sections["SWOT分析"])
	assert.Equal(4, extractor.Count())
}

// Re-running the extractor on the same full text must be deterministic.
func TestDeterminism(t *testing.T) {
	assert := assert.New(t)

	first := extract.New(nil).Sections(fullText)
	second := extract.New(nil).Sections(fullText)
	assert.Equal(first, second)
}

// Feeding the text delta by delta must converge on the same map as one
// shot, and no section value may ever shrink along the way.
func TestIncrementalMonotonic(t *testing.T) {
	assert := assert.New(t)

	extractor := extract.New(nil)
	previous := map[string]string{}
	for i := 1; i <= len(fullText); i++ {
		sections := extractor.Sections(fullText[:i])
		for key, value := range previous {
			assert.True(strings.HasPrefix(sections[key], value),
				"section %q shrank at offset %d: %q -> %q", key, i, value, sections[key])
		}
		previous = sections
	}
	assert.Equal(extract.New(nil).Sections(fullText), previous)
}

func TestSectionExtendsAcrossDeltas(t *testing.T) {
	assert := assert.New(t)

	extractor := extract.New(nil)
	text := "## Overview\nAcme is..."
	assert.Equal("Acme is...", extractor.Sections(text)["Overview"])

	text += " a leading firm."
	assert.Equal("Acme is... a leading firm.", extractor.Sections(text)["Overview"])
}

func TestFillTemplate(t *testing.T) {
	assert := assert.New(t)

	sections := extract.New(nil).Sections(fullText)
	slides := extract.DeckTemplate().Fill(sections)
	assert.Len(slides, 5)
	assert.Equal("Acme Corpは大手メーカーです。", slides[0].Body)
	assert.Equal("売上高は増加傾向。", slides[1].Body)
	// no strategy or risk section arrived
	assert.Equal(extract.Sentinel, slides[4].Body)
}

func TestFillEmpty(t *testing.T) {
	assert := assert.New(t)

	for _, slide := range extract.PowerPointTemplate().Fill(nil) {
		assert.Equal(extract.Sentinel, slide.Body)
	}
}
