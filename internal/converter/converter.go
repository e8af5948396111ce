// Package converter turns JSON text into an XML document.
//
// A conversion parses the input, serializes it under a root element, optionally
// re-indents the result and prefixes the XML declaration:
//
//	xml, err := converter.Convert(`{"items": [1, 2]}`, "root", true)
//
// yields
//
//	<?xml version="1.0" encoding="UTF-8" ?>
//	<root>
//	  <items>1</items>
//	  <items>2</items>
//	</root>
//
// Converters hold no mutable state and may be shared between goroutines.
package converter

import (
	"io"

	"github.com/mcncl/json2xml/internal/config"
	"github.com/mcncl/json2xml/internal/formatter"
	"github.com/mcncl/json2xml/internal/models"
	"github.com/mcncl/json2xml/internal/parser"
	"github.com/mcncl/json2xml/internal/serializer"
)

// Declaration is the XML prolog written before every document.
const Declaration = `<?xml version="1.0" encoding="UTF-8" ?>`

// Options controls a Converter.
type Options struct {
	// RootElement wraps the converted value. Empty drops the wrapper.
	RootElement string
	// Pretty re-indents the output, one node per line.
	Pretty bool
	// Indent is the unit used per nesting level when Pretty is set. Defaults to two spaces.
	Indent string
	// MaxDepth limits object/array nesting. Zero means parser.MaxNestingDepth.
	MaxDepth int
	// ElementNamer maps object keys to element names. Nil keeps keys as they are.
	ElementNamer func(string) string
}

// Converter converts JSON documents to XML documents.
type Converter struct {
	opts       Options
	serializer *serializer.Serializer
	formatter  *formatter.Formatter
}

// New creates a Converter from opts.
func New(opts Options) *Converter {
	if opts.Indent == "" {
		opts.Indent = formatter.DefaultIndent
	}
	return &Converter{
		opts: opts,
		serializer: serializer.New(
			serializer.WithMaxDepth(opts.MaxDepth),
			serializer.WithElementNamer(opts.ElementNamer),
		),
		formatter: formatter.NewFormatter(formatter.WithIndent(opts.Indent)),
	}
}

// NewFromConfig creates a Converter from loaded configuration.
func NewFromConfig(cfg *config.Config) *Converter {
	opts := Options{
		RootElement: cfg.RootElement,
		Pretty:      cfg.Formatting.Enabled,
		Indent:      cfg.Formatting.Indent,
		MaxDepth:    cfg.Limits.MaxDepth,
	}
	if cfg.HasNaming() {
		opts.ElementNamer = cfg.ElementName
	}
	return New(opts)
}

// Options returns the options the Converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert converts JSON text. Empty, whitespace-only and malformed input fails
// with an InvalidJson error and produces no output.
func (c *Converter) Convert(jsonText string) (string, error) {
	ir, err := parser.ParseString(jsonText, c.parseOptions()...)
	if err != nil {
		return "", err
	}
	return c.ConvertValue(ir.Root)
}

// ConvertReader converts the JSON document read from r.
func (c *Converter) ConvertReader(r io.Reader) (string, error) {
	ir, err := parser.Parse(r, c.parseOptions()...)
	if err != nil {
		return "", err
	}
	return c.ConvertValue(ir.Root)
}

func (c *Converter) parseOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(c.opts.MaxDepth)}
}

// ConvertValue converts an already parsed JSON value.
func (c *Converter) ConvertValue(value models.JSONValue) (string, error) {
	fragment, err := c.serializer.Serialize(value, c.opts.RootElement)
	if err != nil {
		return "", err
	}
	if c.opts.Pretty {
		fragment = c.formatter.Format(fragment)
	}
	return Declaration + "\n" + fragment, nil
}

// Convert converts jsonText under rootElementName, re-indenting the result when
// pretty is set. Nesting is capped at parser.MaxNestingDepth and keys are used
// verbatim.
func Convert(jsonText, rootElementName string, pretty bool) (string, error) {
	return New(Options{RootElement: rootElementName, Pretty: pretty}).Convert(jsonText)
}
