package site

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
)

var titleCaser = cases.Title(language.English)

// pageTitle picks the front matter title, then the first h1 of the rendered
// body, then the title-cased leaf of the document name. explicit is false for
// the last case.
func pageTitle(meta map[string]any, body string, doc docpath.DocName) (title string, explicit bool) {
	if t, ok := meta["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t), true
	}
	if h := firstHeading(body); h != "" {
		return h, true
	}
	return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(doc.Leaf())), false
}

func firstHeading(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	inH1 := false
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "h1" {
				inH1 = true
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "h1" && inH1 {
				return strings.Join(strings.Fields(b.String()), " ")
			}
		case html.TextToken:
			if inH1 {
				b.Write(z.Text())
			}
		}
	}
}
