package markup

import "fmt"

// Byte offsets into a source file, end exclusive.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Line and column are both one-based, columns count bytes.
type Position struct {
	Line   int
	Column int
}

type AttrKind int

const (
	// name="value", or a bare name with no value.
	Static AttrKind = iota
	// v-bind:name="expr", :name="expr", @event="expr" etc. The value is only
	// known at runtime.
	Bound
)

func (k AttrKind) String() string {
	switch k {
	case Static:
		return "static"
	case Bound:
		return "bound"
	default:
		return fmt.Sprintf("AttrKind(%d)", int(k))
	}
}

// A parsed directive name such as v-bind:href.prop, where Kind is "bind",
// Arg is "href" and Modifiers is ["prop"].
type Directive struct {
	Kind      string
	Arg       string
	Modifiers []string
	// Set for dynamic arguments like :[name], which never match a named arg.
	DynamicArg bool
}

// Attr is either a static attribute or a bound directive, depending on Kind.
type Attr struct {
	Kind AttrKind
	// The attribute name as written, lowercased.
	Name string
	// The unescaped literal value for static attributes, or the expression
	// source for bound ones.
	Value string
	// False for bare attributes like <a download>.
	HasValue  bool
	Directive Directive
	// Covers the whole attribute including the value and its quotes.
	Range Range
	// Covers the value only, excluding quotes.
	ValueRange Range
}

// Element is a single start tag in a template.
type Element struct {
	Name  string
	Attrs []Attr
	// Covers the start tag, from '<' up to and including '>'.
	Range Range
	Pos   Position
	End   Position
}
