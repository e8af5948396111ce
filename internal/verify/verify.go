// Package verify checks that converted documents are well-formed XML.
package verify

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/mcncl/json2xml/internal/errors"
)

// Summary describes a parsed document.
type Summary struct {
	Root     string // name of the first top-level element
	Roots    int    // number of top-level elements
	Elements int    // total number of elements
}

// WellFormed parses doc and returns a Summary of its elements.
// A document that does not parse fails with errors.ErrMalformedXML.
func WellFormed(doc string) (Summary, error) {
	top, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return Summary{}, errors.NewVerifyError(
			fmt.Sprintf("output is not well-formed: %v", err),
			errors.ErrMalformedXML,
		)
	}

	var summary Summary
	for child := top.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if summary.Roots == 0 {
			summary.Root = child.Data
		}
		summary.Roots++
	}
	if summary.Roots == 0 {
		return Summary{}, errors.NewVerifyError("output has no root element", errors.ErrMalformedXML)
	}

	nodes, err := xmlquery.QueryAll(top, "//*")
	if err != nil {
		return Summary{}, errors.NewVerifyError("failed to query elements", err)
	}
	summary.Elements = len(nodes)

	return summary, nil
}

// SingleRoot is like WellFormed but also requires exactly one top-level element.
func SingleRoot(doc string) (Summary, error) {
	summary, err := WellFormed(doc)
	if err != nil {
		return summary, err
	}
	if summary.Roots != 1 {
		return summary, errors.NewVerifyError(
			fmt.Sprintf("output has %d top-level elements, want 1", summary.Roots),
			errors.ErrMalformedXML,
		)
	}
	return summary, nil
}
