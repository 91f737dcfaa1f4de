package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/punchamoorthee/gashawk/internal/domain"
)

const (
	Width  = 1200
	Height = 630

	background = "#1a1a1a"
	fontFamily = "Inter, sans-serif"
)

type style struct {
	size  int
	color string
	gap   int
}

var styles = map[domain.Tone]style{
	domain.ToneTitle:     {size: 48, color: "#ffffff", gap: 24},
	domain.ToneBody:      {size: 24, color: "#ffffff", gap: 20},
	domain.ToneMuted:     {size: 24, color: "#a0a0a0", gap: 20},
	domain.ToneAccent:    {size: 32, color: "#22c55e", gap: 20},
	domain.ToneError:     {size: 36, color: "#ef4444", gap: 20},
	domain.ToneFineprint: {size: 16, color: "#666666", gap: 16},
}

func styleFor(t domain.Tone) style {
	if s, ok := styles[t]; ok {
		return s
	}
	return styles[domain.ToneBody]
}

// SVG draws the screen's lines centred on a dark 1.91:1 canvas.
func SVG(screen domain.Screen) string {
	type row struct {
		text string
		st   style
	}
	var rows []row
	height := 0
	for i, l := range screen.Lines {
		st := styleFor(l.Tone)
		for _, part := range wrap(l.Text, charsPerLine(st.size)) {
			rows = append(rows, row{text: part, st: st})
			height += st.size + 8
		}
		if i < len(screen.Lines)-1 {
			height += st.gap
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, background)

	y := (Height - height) / 2
	prevGap := 0
	for i, r := range rows {
		if i > 0 && r.st != rows[i-1].st {
			y += prevGap
		}
		y += r.st.size
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="%s" font-size="%d" fill="%s">%s</text>`,
			Width/2, y, fontFamily, r.st.size, r.st.color, html.EscapeString(r.text))
		y += 8
		prevGap = r.st.gap
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// DataURI returns the SVG of screen as a base64 data URI.
func DataURI(screen domain.Screen) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(SVG(screen)))
}

// charsPerLine approximates how many glyphs fit in 80% of the canvas.
func charsPerLine(size int) int {
	n := (Width * 8 / 10) / (size * 55 / 100)
	if n < 10 {
		return 10
	}
	return n
}

func wrap(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
	)
	for _, w := range words {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(w) > limit {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	return append(lines, cur.String())
}
