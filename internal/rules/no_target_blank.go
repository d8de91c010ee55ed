// Package rules implements the no-target-blank rule, which reports links that
// open in a new tab without rel="noopener noreferrer". Such pages get a
// reference to the opener through window.opener and the Referer header leaks
// the linking page's URL to the target.
package rules

import (
	"html"
	"regexp"
	"strings"

	"github.com/danprince/relcheck/internal/markup"
)

const (
	NoTargetBlankID = "no-target-blank"
	MessageID       = "noTargetBlank"
	Message         = `Using target="_blank" without rel="noopener noreferrer" creates security vulnerability.`
)

// The only element the rule is interested in.
const AnchorTag = "a"

// Matches hrefs that start with a scheme (https:, mailto:) or are protocol
// relative (//example.com).
var externalLinkRegex = regexp.MustCompile(`^(?:\w+:|//)`)

// Reports whether el opens an external or dynamic link in a new tab without a
// secure rel attribute.
func Check(el *markup.Element, opts Options) bool {
	if !el.HasAttribute("target", "_blank") || hasSecureRel(el, opts.AllowReferrer) {
		return false
	}

	reportDynamicLink := opts.EnforceDynamicLinks && el.HasDirective("bind", "href")

	return reportDynamicLink || hasExternalLink(el)
}

func hasExternalLink(el *markup.Element) bool {
	href, ok := el.Attribute("href")
	return ok && href.Value != "" && externalLinkRegex.MatchString(href.Value)
}

func hasSecureRel(el *markup.Element, allowReferrer bool) bool {
	rel, ok := el.Attribute("rel")

	if !ok {
		return false
	}

	tokens := relTokens(rel.Value)
	return hasToken(tokens, "noopener") && (allowReferrer || hasToken(tokens, "noreferrer"))
}

// Returns the edit that makes el's rel attribute secure. Only meaningful for
// elements that Check reported.
func Fix(el *markup.Element) markup.Edit {
	rel, ok := el.Attribute("rel")

	if !ok {
		target, _ := el.Attribute("target")
		return markup.InsertAfter(target.Range, ` rel="noopener noreferrer"`)
	}

	tokens := relTokens(rel.Value)

	for _, required := range []string{"noopener", "noreferrer"} {
		if !hasToken(tokens, required) {
			tokens = append(tokens, required)
		}
	}

	value := html.EscapeString(strings.Join(tokens, " "))
	return markup.Replace(rel.Range, `rel="`+value+`"`)
}

// Splits a rel value into its tokens, keeping the first of any duplicates.
func relTokens(value string) []string {
	var tokens []string

	for _, token := range strings.FieldsFunc(value, isSpace) {
		if !hasToken(tokens, token) {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// HTML space characters, unlike unicode.IsSpace this excludes NBSP and
// friends.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

// Link types are ASCII case-insensitive.
func hasToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}
