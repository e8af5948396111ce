package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/json2xml/internal/errors"
	"github.com/mcncl/json2xml/internal/models"
)

// escaper replaces XML special characters in text content. strings.Replacer
// works in a single pass, so ampersands it introduces are never escaped again.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// Escape returns s with &, <, >, " and ' replaced by their XML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithMaxDepth limits how deeply objects and arrays may nest. Zero means no limit.
func WithMaxDepth(depth int) Option {
	return func(s *Serializer) {
		s.maxDepth = depth
	}
}

// WithElementNamer sets the function that maps object keys to element names.
// The root element name is never passed through it.
func WithElementNamer(namer func(string) string) Option {
	return func(s *Serializer) {
		if namer != nil {
			s.namer = namer
		}
	}
}

// Serializer is responsible for turning parsed JSON values into an XML fragment.
// It holds no per-call state and is safe for concurrent use.
type Serializer struct {
	maxDepth int
	namer    func(string) string
}

// New creates a new Serializer instance
func New(opts ...Option) *Serializer {
	s := &Serializer{
		namer: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize converts value into an XML fragment wrapped in elementName.
//
// Arrays produce one sibling element per item, all named elementName, with no
// wrapping list element. Arrays of arrays flatten the same way. Objects wrap
// their members, each member named after its key. An empty elementName drops
// the wrapping tags, and a scalar under an empty name is written raw.
func (s *Serializer) Serialize(value models.JSONValue, elementName string) (string, error) {
	var b strings.Builder
	if err := s.write(&b, value, elementName, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Serialize converts value with no depth limit and keys used verbatim as element names.
func Serialize(value models.JSONValue, elementName string) string {
	var b strings.Builder
	_ = New().write(&b, value, elementName, 0)
	return b.String()
}

func (s *Serializer) write(b *strings.Builder, value models.JSONValue, name string, depth int) error {
	switch v := value.(type) {
	case models.JSONArray:
		if err := s.enter(depth); err != nil {
			return err
		}
		for _, item := range v {
			if err := s.write(b, item, name, depth+1); err != nil {
				return err
			}
		}
	case models.JSONObject:
		if err := s.enter(depth); err != nil {
			return err
		}
		if name != "" {
			b.WriteString("<")
			b.WriteString(name)
			b.WriteString(">")
		}
		for _, m := range v {
			if err := s.write(b, m.Value, s.namer(m.Key), depth+1); err != nil {
				return err
			}
		}
		if name != "" {
			b.WriteString("</")
			b.WriteString(name)
			b.WriteString(">")
		}
	default:
		text := Text(v)
		if name == "" {
			b.WriteString(text)
			return nil
		}
		b.WriteString("<")
		b.WriteString(name)
		b.WriteString(">")
		b.WriteString(Escape(text))
		b.WriteString("</")
		b.WriteString(name)
		b.WriteString(">")
	}
	return nil
}

// enter checks that one more level of nesting below depth is allowed.
func (s *Serializer) enter(depth int) error {
	if s.maxDepth > 0 && depth >= s.maxDepth {
		return errors.NewSerializeError(
			fmt.Sprintf("JSON nesting deeper than %d levels", s.maxDepth),
			errors.ErrDepthExceeded,
		)
	}
	return nil
}

// Text returns the textual form of a scalar JSON value: strings as-is, numbers
// by their value (see FormatNumber), true/false, and null.
func Text(value models.JSONValue) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil && !math.IsInf(f, 0) {
			return v.String()
		}
		return FormatNumber(f)
	case float64:
		return FormatNumber(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber writes f with the shortest digits that round-trip. Values whose
// magnitude is below 1e-6 or at least 1e21 use exponent form (1e+21, 1.5e-7).
// Negative zero is "0" and out-of-range literals are "Infinity"/"-Infinity".
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// 'e' pads the exponent to two digits
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
