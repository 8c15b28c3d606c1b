package model1

import "fmt"

// Page is one page of rows as returned by the backend.
type Page struct {
	Rows    Rows
	Number  int
	Total   int
	HasNext bool
}

func (p Page) String() string {
	return fmt.Sprintf("page %d (%d rows, total %d, next %t)", p.Number, len(p.Rows), p.Total, p.HasNext)
}

// Pages is the ordered sequence of fetched pages.
type Pages []Page

// Last returns the most recently fetched page.
func (pp Pages) Last() (Page, bool) {
	if len(pp) == 0 {
		return Page{}, false
	}
	return pp[len(pp)-1], true
}

// NextNumber returns the page number to request next.
func (pp Pages) NextNumber() int {
	last, ok := pp.Last()
	if !ok {
		return 1
	}
	return last.Number + 1
}

// HasNext reports whether more pages may be requested.
// With no page fetched yet the first page is always pending.
func (pp Pages) HasNext() bool {
	last, ok := pp.Last()
	if !ok {
		return true
	}
	return last.HasNext
}

// Total returns the row total reported by the latest page.
func (pp Pages) Total() int {
	last, ok := pp.Last()
	if !ok {
		return 0
	}
	return last.Total
}
