// Package content turns stored article HTML into the shapes the API
// returns: plain-text previews, h2 sections and URL slugs.
package content

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const PreviewLength = 100

var (
	strict     = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
	whitespace = regexp.MustCompile(`\s+`)
	nonSlug    = regexp.MustCompile(`[^a-z0-9]+`)
)

// PlainText strips every tag and collapses whitespace.
func PlainText(s string) string {
	text := html.UnescapeString(strict.Sanitize(s))
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Preview returns the first n characters of the article text, followed by
// "..." when the text was cut.
func Preview(s string, n int) string {
	text := PlainText(s)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:n])) + "..."
}

// Sections splits article HTML on its <h2> headings. Markup before the
// first heading becomes a section with an empty heading.
func Sections(s string) ([]model.ArticleSection, error) {
	body := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := nethtml.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, err
	}

	sections := []model.ArticleSection{}
	current := model.ArticleSection{}
	var buf bytes.Buffer

	flush := func() {
		current.Body = strings.TrimSpace(buf.String())
		if current.Heading != "" || current.Body != "" {
			sections = append(sections, current)
		}
		buf.Reset()
	}

	for _, n := range nodes {
		if n.Type == nethtml.ElementNode && n.DataAtom == atom.H2 {
			flush()
			current = model.ArticleSection{Heading: strings.TrimSpace(textOf(n))}
			continue
		}
		if err := nethtml.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	flush()

	return sections, nil
}

func textOf(n *nethtml.Node) string {
	var sb strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Slugify lower-cases s, drops diacritics and joins the remaining words
// with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}
