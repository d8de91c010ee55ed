package lint

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/danprince/relcheck/internal/errors"
	"github.com/danprince/relcheck/internal/markup"
	"github.com/danprince/relcheck/internal/rules"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Options that a markdown page can set for itself:
//
//	---
//	relcheck:
//	  allowReferrer: true
//	---
//
// The block is kept raw so that it can be checked for unknown keys whatever
// format the front matter was written in.
type pageFrontMatter struct {
	Relcheck map[string]any `yaml:"relcheck" json:"relcheck" toml:"relcheck"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Decodes the relcheck block strictly, the same way config files are.
func pageOverrides(name string, raw map[string]any) (rules.Overrides, error) {
	var ov rules.Overrides

	if raw == nil {
		return ov, nil
	}

	data, err := json.Marshal(raw)

	if err != nil {
		return ov, fmt.Errorf("invalid relcheck options in %s front matter: %w", name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&ov); err != nil {
		return ov, fmt.Errorf("invalid relcheck options in %s front matter: %w", name, err)
	}

	return ov, nil
}

// Collects the elements from the raw HTML in a markdown file. Links written
// in markdown syntax never have a target, so only HTML needs checking.
func markdownElements(name string, src []byte) ([]*markup.Element, rules.Overrides, error) {
	var fm pageFrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)

	if err != nil {
		return nil, rules.Overrides{}, errors.FrontMatterError(err, name, string(src))
	}

	overrides, err := pageOverrides(name, fm.Relcheck)

	if err != nil {
		return nil, rules.Overrides{}, err
	}

	// Segments are relative to the body, which follows the front matter.
	offset := len(src) - len(body)
	doc := markdown.Parser().Parse(text.NewReader(body))

	// Each region is the list of segments goldmark kept for one piece of
	// HTML. Inside containers the bytes between segments are prefixes like
	// "> " that aren't part of the HTML.
	var regions [][]markup.Range

	segments := func(segs *text.Segments) []markup.Range {
		rs := make([]markup.Range, segs.Len())
		for i := range rs {
			seg := segs.At(i)
			rs[i] = markup.Range{Start: seg.Start + offset, End: seg.Stop + offset}
		}
		return rs
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHTMLBlock:
			block := n.(*ast.HTMLBlock)
			rs := segments(block.Lines())

			if block.HasClosure() {
				rs = append(rs, markup.Range{
					Start: block.ClosureLine.Start + offset,
					End:   block.ClosureLine.Stop + offset,
				})
			}

			if len(rs) > 0 {
				regions = append(regions, rs)
			}

			return ast.WalkSkipChildren, nil

		case ast.KindRawHTML:
			if rs := segments(n.(*ast.RawHTML).Segments); len(rs) > 0 {
				regions = append(regions, rs)
			}
		}

		return ast.WalkContinue, nil
	})

	if len(regions) == 0 {
		return nil, overrides, nil
	}

	// Container prefixes are blanked out in a copy, so the tokenizer only
	// sees the HTML while offsets still line up with src.
	scratch := bytes.Clone(src)

	for _, rs := range regions {
		for i := 1; i < len(rs); i++ {
			blank(scratch, markup.Range{Start: rs[i-1].End, End: rs[i].Start})
		}
	}

	var els []*markup.Element
	p := markup.Parser{}

	for _, rs := range regions {
		r := markup.Range{Start: rs[0].Start, End: rs[len(rs)-1].End}
		els = append(els, p.ParseRange(scratch, r)...)
	}

	return els, overrides, nil
}

// Replaces everything but newlines in r with spaces.
func blank(b []byte, r markup.Range) {
	for i := r.Start; i < r.End && i < len(b); i++ {
		if b[i] != '\n' && b[i] != '\r' {
			b[i] = ' '
		}
	}
}
