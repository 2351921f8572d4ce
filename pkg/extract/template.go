package extract

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Slide is one filled placeholder in a presentation template
type Slide struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SlideSpec names a slide and the section headings that can fill it,
// in preference order.
type SlideSpec struct {
	Title    string
	Sections []string
}

// Template is a fixed ordered set of slide placeholders
type Template []SlideSpec

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Sentinel rendered for a placeholder whose section has not arrived
const Sentinel = "データ未取得"

// Canonical analysis headings the prompt asks the model to emit
const (
	HeadingOverview    = "会社概要"
	HeadingFinancials  = "財務分析"
	HeadingSWOT        = "SWOT分析"
	HeadingCompetitors = "競合分析"
	HeadingStrategy    = "事業戦略"
	HeadingNews        = "最新動向"
	HeadingRisk        = "リスク評価"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// DeckTemplate is the five-stage animated deck shown while streaming
func DeckTemplate() Template {
	return Template{
		{Title: "エグゼクティブサマリー", Sections: []string{HeadingOverview, "Overview"}},
		{Title: "財務分析", Sections: []string{HeadingFinancials, "Financials"}},
		{Title: "SWOT分析", Sections: []string{HeadingSWOT, "SWOT"}},
		{Title: "最新動向", Sections: []string{HeadingNews, "News"}},
		{Title: "今後の展望", Sections: []string{HeadingStrategy, HeadingRisk, "Conclusion"}},
	}
}

// PowerPointTemplate is the eight-slide export layout
func PowerPointTemplate() Template {
	return Template{
		{Title: "表紙", Sections: nil},
		{Title: "会社概要", Sections: []string{HeadingOverview, "Overview"}},
		{Title: "財務分析", Sections: []string{HeadingFinancials, "Financials"}},
		{Title: "SWOT分析", Sections: []string{HeadingSWOT, "SWOT"}},
		{Title: "競合分析", Sections: []string{HeadingCompetitors, "Competitors"}},
		{Title: "事業戦略", Sections: []string{HeadingStrategy, "Strategy"}},
		{Title: "最新動向", Sections: []string{HeadingNews, "News"}},
		{Title: "リスク評価", Sections: []string{HeadingRisk, "Risk"}},
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Fill maps the section map onto the template. A slide whose sections
// are all missing or empty renders the sentinel rather than blocking
// the rest of the deck.
func (t Template) Fill(sections map[string]string) []Slide {
	slides := make([]Slide, 0, len(t))
	for _, spec := range t {
		body := Sentinel
		for _, name := range spec.Sections {
			if content := sections[name]; content != "" {
				body = content
				break
			}
		}
		slides = append(slides, Slide{Title: spec.Title, Body: body})
	}
	return slides
}
