package formatter

import (
	"regexp"
	"strings"
)

// DefaultIndent is the indent unit written once per nesting level.
const DefaultIndent = "  "

// Line classification patterns. Lines are tested in this order.
var (
	// tagBoundaryRegex finds every ">" directly followed by "<" (and any "/").
	tagBoundaryRegex = regexp.MustCompile(`(>)(<)(/*)`)
	// leafRegex matches content followed by a closing tag, e.g. <b>1</b>.
	leafRegex = regexp.MustCompile(`.+</\w[^>]*>$`)
	// closingRegex matches a line that starts with a closing tag.
	closingRegex = regexp.MustCompile(`^</\w`)
	// openingRegex matches an opening tag that does not end in "/>".
	openingRegex = regexp.MustCompile(`^<\w(?:[^>]*[^/>])?>.*$`)
)

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndent sets the indent unit.
func WithIndent(indent string) Option {
	return func(f *Formatter) {
		f.indent = indent
	}
}

// Formatter re-indents flat XML produced by the serializer. It works on tag
// boundaries in the text and never builds a tree, so it assumes no attribute
// values containing < or >, no comments, no CDATA and no text spanning lines.
type Formatter struct {
	indent string
}

// NewFormatter creates a new Formatter instance
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{indent: DefaultIndent}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format puts every node of xml on its own line, indented by nesting depth.
func (f *Formatter) Format(xml string) string {
	split := tagBoundaryRegex.ReplaceAllString(xml, "$1\n$2$3")

	var b strings.Builder
	pad := 0
	for _, node := range strings.Split(split, "\n") {
		indent := 0
		switch {
		case leafRegex.MatchString(node):
			indent = 0
		case closingRegex.MatchString(node):
			if pad != 0 {
				pad--
			}
		case openingRegex.MatchString(node):
			indent = 1
		}

		b.WriteString(strings.Repeat(f.indent, pad))
		b.WriteString(node)
		b.WriteString("\n")
		pad += indent
	}

	return strings.TrimSpace(b.String())
}

// Format re-indents xml with two spaces per level.
func Format(xml string) string {
	return NewFormatter().Format(xml)
}
