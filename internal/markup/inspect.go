package markup

// Reports whether the element has a static attribute called name. If a value
// is given, the attribute's value must also match it exactly.
func (e *Element) HasAttribute(name string, value ...string) bool {
	attr, ok := e.Attribute(name)

	if !ok {
		return false
	}

	if len(value) > 0 {
		return attr.Value == value[0]
	}

	return true
}

// Returns the first static attribute called name.
func (e *Element) Attribute(name string) (Attr, bool) {
	for _, attr := range e.Attrs {
		switch attr.Kind {
		case Static:
			if attr.Name == name {
				return attr, true
			}
		}
	}

	return Attr{}, false
}

// Reports whether the element has a directive of the given kind bound to arg,
// e.g. HasDirective("bind", "href") for both :href and v-bind:href.
func (e *Element) HasDirective(kind, arg string) bool {
	for _, attr := range e.Attrs {
		switch attr.Kind {
		case Bound:
			d := attr.Directive
			if d.Kind == kind && !d.DynamicArg && d.Arg == arg {
				return true
			}
		}
	}

	return false
}
