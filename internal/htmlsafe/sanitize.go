// Package htmlsafe strips active content from admin-authored HTML.
package htmlsafe

import (
	"strings"

	"golang.org/x/net/html"
)

// dropped tags are removed together with everything inside them.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"applet":   true,
	"template": true,
	"noembed":  true,
	"noframes": true,
	"noscript": true,
}

// stripped tags are removed but their content is kept.
var stripped = map[string]bool{
	"base": true,
	"link": true,
	"meta": true,
	"html": true,
	"head": true,
	"body": true,
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"background": true,
	"poster":     true,
}

// Sanitize returns src with scripts, event handlers and script URLs removed.
func Sanitize(src string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(src))
	skip := 0
	skipTag := ""

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a tokenizer error: return what was emitted so far
			return b.String()
		}
		tok := z.Token()

		if skip > 0 {
			switch {
			case tt == html.StartTagToken && tok.Data == skipTag:
				skip++
			case tt == html.EndTagToken && tok.Data == skipTag:
				skip--
			}
			continue
		}

		switch tt {
		case html.StartTagToken:
			if dropped[tok.Data] {
				skip, skipTag = 1, tok.Data
				continue
			}
			if stripped[tok.Data] {
				continue
			}
			tok.Attr = cleanAttrs(tok.Attr)
			b.WriteString(tok.String())
		case html.SelfClosingTagToken:
			if dropped[tok.Data] || stripped[tok.Data] {
				continue
			}
			tok.Attr = cleanAttrs(tok.Attr)
			b.WriteString(tok.String())
		case html.EndTagToken:
			if dropped[tok.Data] || stripped[tok.Data] {
				continue
			}
			b.WriteString(tok.String())
		case html.TextToken:
			b.WriteString(tok.String())
		}
		// comments and doctypes are dropped
	}
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttrs[key] && !safeURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func safeURL(raw string) bool {
	v := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, raw))
	switch {
	case strings.HasPrefix(v, "javascript:"), strings.HasPrefix(v, "vbscript:"):
		return false
	case strings.HasPrefix(v, "data:"):
		return strings.HasPrefix(v, "data:image/") && !strings.HasPrefix(v, "data:image/svg")
	}
	return true
}
