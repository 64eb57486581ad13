package keyscan

import "fmt"

// SearchIDNotFoundError reports that no search bundle exists for the
// given id, either because it never existed or its TTL expired.
type SearchIDNotFoundError struct {
	SearchID string
}

func (e *SearchIDNotFoundError) Error() string {
	return fmt.Sprintf("search identifier %q was not found", e.SearchID)
}

// WrongPageSizeError reports a non-positive per_page value.
type WrongPageSizeError struct {
	PerPage int
}

func (e *WrongPageSizeError) Error() string {
	return fmt.Sprintf("page size %d must be greater than zero", e.PerPage)
}

// WrongNumberError reports a page number below 1.
type WrongNumberError struct {
	PageNumber int
}

func (e *WrongNumberError) Error() string {
	return fmt.Sprintf("page number %d must be at least 1", e.PageNumber)
}

// PageNotFoundError reports a page whose start index falls beyond the
// search's known result count.
type PageNotFoundError struct {
	SearchID string
	Start    int
	Count    int
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("search identifier %s has %d items, but you requested a slice from %d", e.SearchID, e.Count, e.Start)
}
