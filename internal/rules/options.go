package rules

// Options for the no-target-blank rule. The zero value is not the default,
// use DefaultOptions.
type Options struct {
	// Accept rel="noopener" on its own, without noreferrer.
	AllowReferrer bool
	// Report anchors whose href is bound to an expression, as their
	// destination can't be checked statically.
	EnforceDynamicLinks bool
}

var DefaultOptions = Options{
	AllowReferrer:       false,
	EnforceDynamicLinks: true,
}

// Overrides is a partial set of options as written in a config file or front
// matter. Nil fields leave the underlying option alone.
type Overrides struct {
	AllowReferrer       *bool `json:"allowReferrer,omitempty" yaml:"allowReferrer,omitempty"`
	EnforceDynamicLinks *bool `json:"enforceDynamicLinks,omitempty" yaml:"enforceDynamicLinks,omitempty"`
}

// Returns a copy of o with every field that is set in ov applied.
func (o Options) Merge(ov Overrides) Options {
	if ov.AllowReferrer != nil {
		o.AllowReferrer = *ov.AllowReferrer
	}

	if ov.EnforceDynamicLinks != nil {
		o.EnforceDynamicLinks = *ov.EnforceDynamicLinks
	}

	return o
}

func (ov Overrides) IsZero() bool {
	return ov.AllowReferrer == nil && ov.EnforceDynamicLinks == nil
}
