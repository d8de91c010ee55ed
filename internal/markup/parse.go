package markup

import (
	"bytes"
	"html"
	"sort"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Parser collects start tags and their attributes from markup source. It is
// lenient: malformed markup never fails, it just yields fewer elements.
type Parser struct {
	// Only collect elements nested inside a top-level <template> block, which
	// is how the markup section of a Vue single file component is delimited.
	TemplateOnly bool
}

// Parses every element in src.
func (p *Parser) Parse(src []byte) []*Element {
	return p.ParseRange(src, Range{0, len(src)})
}

// Parses the elements inside r. Ranges and positions in the result are
// relative to the whole of src, so fragments (e.g. inline HTML in a markdown
// file) can be reported against the file they came from.
func (p *Parser) ParseRange(src []byte, r Range) []*Element {
	var elements []*Element

	lines := newLineIndex(src)
	z := nethtml.NewTokenizer(bytes.NewReader(src[r.Start:r.End]))
	offset := r.Start
	depth := 0

	for {
		tt := z.Next()

		if tt == nethtml.ErrorToken {
			// io.EOF, or a read error we can't do anything useful with
			break
		}

		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)

			if p.TemplateOnly && tag == "template" {
				outer := depth == 0

				if tt == nethtml.StartTagToken {
					depth++
				}

				// The SFC's own <template> block isn't part of the template.
				if outer {
					continue
				}
			}

			if p.TemplateOnly && depth == 0 {
				continue
			}

			el := &Element{
				Name:  tag,
				Attrs: scanAttrs(raw, start),
				Range: Range{start, offset},
				Pos:   lines.position(start),
				End:   lines.position(offset),
			}

			elements = append(elements, el)

		case nethtml.EndTagToken:
			name, _ := z.TagName()

			if p.TemplateOnly && string(name) == "template" && depth > 0 {
				depth--
			}
		}
	}

	return elements
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Scans the attributes of a raw start tag, which begins at base in the
// source. The tokenizer normalises names and values, so it can't tell us
// where each attribute lives, which we need for patching.
func scanAttrs(b []byte, base int) []Attr {
	var attrs []Attr

	// Skip over "<tagname"
	i := 1
	for i < len(b) && !isSpace(b[i]) && b[i] != '/' && b[i] != '>' {
		i++
	}

	for {
		for i < len(b) && (isSpace(b[i]) || b[i] == '/') {
			i++
		}

		if i >= len(b) || b[i] == '>' {
			break
		}

		nameStart := i

		// A leading '=' belongs to the name, anywhere else it ends it.
		i++
		for i < len(b) && !isSpace(b[i]) && b[i] != '/' && b[i] != '>' && b[i] != '=' {
			i++
		}

		attr := Attr{Name: strings.ToLower(string(b[nameStart:i]))}
		end := i

		j := i
		for j < len(b) && isSpace(b[j]) {
			j++
		}

		if j < len(b) && b[j] == '=' {
			j++
			for j < len(b) && isSpace(b[j]) {
				j++
			}

			var valueStart, valueEnd int

			if j < len(b) && (b[j] == '"' || b[j] == '\'') {
				valueStart = j + 1
				k := bytes.IndexByte(b[valueStart:], b[j])

				if k < 0 {
					// Unterminated, the tokenizer ran to the end of the input.
					valueEnd = len(b)
					end = len(b)
				} else {
					valueEnd = valueStart + k
					end = valueEnd + 1
				}
			} else {
				valueStart = j
				for j < len(b) && !isSpace(b[j]) && b[j] != '>' {
					j++
				}
				valueEnd = j
				end = j
			}

			attr.HasValue = true
			attr.Value = html.UnescapeString(string(b[valueStart:valueEnd]))
			attr.ValueRange = Range{base + valueStart, base + valueEnd}
		}

		if d, ok := parseDirective(attr.Name); ok {
			attr.Kind = Bound
			attr.Directive = d
		} else {
			attr.Kind = Static
		}

		attr.Range = Range{base + nameStart, base + end}
		attrs = append(attrs, attr)
		i = end
	}

	return attrs
}

var directiveShorthands = map[byte]Directive{
	':': {Kind: "bind"},
	'@': {Kind: "on"},
	'#': {Kind: "slot"},
	'.': {Kind: "bind", Modifiers: []string{"prop"}},
}

// Parses Vue directive syntax: v-kind:arg.mod1.mod2 and the :arg, @arg, #arg
// and .arg shorthands.
func parseDirective(name string) (Directive, bool) {
	var d Directive
	var rest string

	if strings.HasPrefix(name, "v-") && len(name) > 2 {
		rest = name[2:]
		colon := strings.IndexByte(rest, ':')

		if colon < 0 {
			parts := strings.Split(rest, ".")
			d.Kind = parts[0]
			d.Modifiers = append(d.Modifiers, parts[1:]...)
			return d, true
		}

		d.Kind = rest[:colon]
		rest = rest[colon+1:]
	} else if shorthand, ok := directiveShorthands[name[0]]; ok && len(name) > 1 {
		d.Kind = shorthand.Kind
		d.Modifiers = append(d.Modifiers, shorthand.Modifiers...)
		rest = name[1:]
	} else {
		return d, false
	}

	if strings.HasPrefix(rest, "[") {
		d.DynamicArg = true
		if end := strings.IndexByte(rest, ']'); end >= 0 {
			d.Arg = rest[1:end]
			rest = strings.TrimPrefix(rest[end+1:], ".")
		} else {
			d.Arg = rest[1:]
			rest = ""
		}
		if rest != "" {
			d.Modifiers = append(d.Modifiers, strings.Split(rest, ".")...)
		}
		return d, true
	}

	parts := strings.Split(rest, ".")
	d.Arg = parts[0]
	d.Modifiers = append(d.Modifiers, parts[1:]...)
	return d, true
}

// Sorted offsets of the first byte of each line.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}

	for i, c := range src {
		if c == '\n' {
			idx = append(idx, i+1)
		}
	}

	return idx
}

func (l lineIndex) position(offset int) Position {
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset })
	return Position{Line: line, Column: offset - l[line-1] + 1}
}
