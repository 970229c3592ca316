// Package extract pulls the html, css and javascript of a site out of free
// text returned by a language model.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"sitecraft/internal/types"
)

var (
	bodyPattern   = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
	stylePattern  = regexp.MustCompile(`(?is)<style([^>]*)>(.*?)</style>`)
	scriptPattern = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)
	srcAttr       = regexp.MustCompile(`(?i)\b(src|href)\s*=`)
)

// strategy tries one response shape. ok=false hands the text to the next one.
type strategy func(text string) (doc types.Document, ok bool)

var strategies = []strategy{tagBlocks, fencedBlocks}

// Parse never fails: when no strategy recognises the text, the whole input
// is taken as html.
func Parse(text string) types.Document {
	for _, try := range strategies {
		if doc, ok := try(text); ok {
			return doc
		}
	}
	return types.Document{HTML: text}
}

// tagBlocks reads the first <body> block and the first inline <style> and
// <script> blocks. Any one of them matching is enough to claim the text. The
// style and script blocks taken into css and javascript are cut out of the
// html so the same code is not carried in two fields. Tags that load code
// from a src or href stay in the html untouched.
func tagBlocks(src string) (types.Document, bool) {
	body := bodyPattern.FindStringSubmatchIndex(src)
	style := firstInline(stylePattern, src)
	script := firstInline(scriptPattern, src)
	if body == nil && style == nil && script == nil {
		return types.Document{}, false
	}

	var doc types.Document
	if style != nil {
		doc.CSS = strings.TrimSpace(src[style[4]:style[5]])
	}
	if script != nil {
		doc.JavaScript = strings.TrimSpace(src[script[4]:script[5]])
	}
	if body != nil {
		doc.HTML = strings.TrimSpace(cutSpans(src, body[2], body[3], style, script))
	}
	return doc, true
}

// firstInline returns the first match of p whose tag does not load its code
// from a src or href.
func firstInline(p *regexp.Regexp, src string) []int {
	for _, m := range p.FindAllStringSubmatchIndex(src, -1) {
		if !srcAttr.MatchString(src[m[2]:m[3]]) {
			return m
		}
	}
	return nil
}

// cutSpans returns src[start:end] without the full matches in spans that lie
// entirely inside that range.
func cutSpans(src string, start, end int, spans ...[]int) string {
	var inside [][]int
	for _, m := range spans {
		if m != nil && m[0] >= start && m[1] <= end {
			inside = append(inside, m)
		}
	}
	sort.Slice(inside, func(i, j int) bool { return inside[i][0] < inside[j][0] })

	var b strings.Builder
	pos := start
	for _, m := range inside {
		b.WriteString(src[pos:m[0]])
		pos = m[1]
	}
	b.WriteString(src[pos:end])
	return b.String()
}

// fencedBlocks reads the first ```html, ```css and ```javascript fenced code
// blocks from the markdown structure of the text.
func fencedBlocks(src string) (types.Document, bool) {
	source := []byte(src)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	found := map[string]string{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := string(fenced.Language(source))
		if _, seen := found[lang]; seen {
			return ast.WalkSkipChildren, nil
		}
		var b strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			b.Write(segment.Value(source))
		}
		found[lang] = b.String()
		return ast.WalkSkipChildren, nil
	})

	doc := types.Document{
		HTML:       strings.TrimSpace(found["html"]),
		CSS:        strings.TrimSpace(found["css"]),
		JavaScript: strings.TrimSpace(found["javascript"]),
	}
	return doc, !doc.IsEmpty()
}
