package analyzer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mcncl/json2xml/internal/models"
)

// xmlNameRegex approximates the XML 1.0 Name production: a letter, underscore
// or colon followed by letters, digits, '.', '-', '_', ':' or combining marks.
var xmlNameRegex = regexp.MustCompile(`^[\p{L}_:][\p{L}\p{N}\p{Mn}\p{Mc}._:\-]*$`)

// NameIssue records an element name that would not be a valid XML name.
type NameIssue struct {
	Path string // JSON path of the value, e.g. $.items[2].name
	Name string // Element name after renaming
}

// String implements fmt.Stringer
func (n NameIssue) String() string {
	if n.Name == "" {
		return fmt.Sprintf("%s: empty element name", n.Path)
	}
	return fmt.Sprintf("%s: %q is not a valid XML name", n.Path, n.Name)
}

// Report summarizes the XML a JSON value serializes to.
type Report struct {
	MaxDepth     int         // deepest object/array nesting
	Elements     int         // elements the serializer would emit
	Leaves       int         // scalar values
	InvalidNames []NameIssue // element names that are not valid XML names
}

// Analyzer walks JSON values the way the serializer does and collects a Report.
type Analyzer struct {
	namer  func(string) string
	report Report
	seen   map[string]struct{}
}

// NewAnalyzer creates a new Analyzer instance. A nil namer uses keys verbatim.
func NewAnalyzer(namer func(string) string) *Analyzer {
	if namer == nil {
		namer = func(key string) string { return key }
	}
	return &Analyzer{namer: namer}
}

// Analyze inspects value as if it were serialized under rootName.
func (a *Analyzer) Analyze(value models.JSONValue, rootName string) Report {
	a.report = Report{}
	a.seen = make(map[string]struct{})
	a.walk(value, rootName, "$", 0, true)
	return a.report
}

func (a *Analyzer) walk(value models.JSONValue, name, path string, depth int, root bool) {
	switch v := value.(type) {
	case models.JSONArray:
		a.enter(depth)
		for i, item := range v {
			a.walk(item, name, path+"["+strconv.Itoa(i)+"]", depth+1, root)
		}
	case models.JSONObject:
		a.enter(depth)
		if name != "" {
			a.element(name, path)
		} else if !root {
			a.invalid(name, path)
		}
		for _, m := range v {
			a.walk(m.Value, a.namer(m.Key), childPath(path, m.Key), depth+1, false)
		}
	default:
		a.report.Leaves++
		if name != "" {
			a.element(name, path)
		} else if !root {
			a.invalid(name, path)
		}
	}
}

func (a *Analyzer) enter(depth int) {
	if depth+1 > a.report.MaxDepth {
		a.report.MaxDepth = depth + 1
	}
}

func (a *Analyzer) element(name, path string) {
	a.report.Elements++
	if !IsValidName(name) {
		a.invalid(name, path)
	}
}

// invalid records each offending path once; array items share their parent's path prefix.
func (a *Analyzer) invalid(name, path string) {
	key := trimIndexes(path) + "\x00" + name
	if _, dup := a.seen[key]; dup {
		return
	}
	a.seen[key] = struct{}{}
	a.report.InvalidNames = append(a.report.InvalidNames, NameIssue{Path: path, Name: name})
}

// IsValidName reports whether name can be used as an XML element name.
// Names starting with "xml" are reserved but still accepted.
func IsValidName(name string) bool {
	return xmlNameRegex.MatchString(name)
}

func childPath(parent, key string) string {
	if identRegex.MatchString(key) {
		return parent + "." + key
	}
	return parent + "[" + strconv.Quote(key) + "]"
}

var (
	identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	indexRegex = regexp.MustCompile(`\[\d+\]`)
)

func trimIndexes(path string) string {
	return indexRegex.ReplaceAllString(path, "[]")
}
