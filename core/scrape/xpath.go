// Package scrape extracts the meta entries of one map page by clicking each
// table cell and resolving the detail panel that opens for it. The same
// labels occur at several nesting levels of the page (table row, panel,
// chrome), so resolution builds an XPath that keeps only the innermost
// element containing both the map name and the cell name.
package scrape

import "strings"

// Literal renders s as an XPath string literal. XPath has no escape
// sequences, so a string containing a single quote is split on the quote
// character and rebuilt as a concat() expression.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

// Innermost wraps a bracketed predicate into a query that selects every
// element satisfying it while excluding any element that has a satisfying
// descendant, i.e. only the most deeply nested matches survive.
func Innermost(predicate string) string {
	return "//*" + predicate + "[not(./descendant::*" + predicate + ")]"
}

// detailPanelQuery builds the disambiguating query for one cell: the
// innermost element whose text contains both the map name and the cell
// name, then its child div that has no h1 descendant (the panel body, as
// opposed to the panel header).
func detailPanelQuery(mapName, cellName string) string {
	cond := "[node()[contains(., " + Literal(mapName) + ")] and node()[contains(., " + Literal(cellName) + ")]]"
	return Innermost(cond) + "/div[not(./descendant::h1)]"
}
