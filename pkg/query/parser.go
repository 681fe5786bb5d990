// Package query turns raw advanced-search form input into a validated
// FilterSpec: free-text term, active source checkboxes, author rows,
// date range and pagination. The same FilterSpec serializes back to
// the form's field set so next-page links preserve every active filter.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for the date_start and date_end fields.
const DateLayout = "2006-01-02 15:04:05"

// DefaultPerPage is used when per_page is absent or not one of the
// enumerated page sizes. The field is a UI convenience, so bad values
// fall back instead of failing the request.
const DefaultPerPage = 25

// PerPageChoices are the page sizes the form offers.
var PerPageChoices = []int{10, 25, 50, 100}

// ParseError reports a field-level validation failure. The request is
// not executed; the caller surfaces the message next to the form.
type ParseError struct {
	// Field is the form field that failed validation.
	Field string

	// Kind classifies the failure.
	Kind ErrorKind
}

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// InvalidDate means a non-empty date field did not match DateLayout.
	InvalidDate ErrorKind = iota
	// InvalidRange means date_start is after date_end.
	InvalidRange
)

func (e *ParseError) Error() string {
	switch e.Kind {
	case InvalidRange:
		return fmt.Sprintf("field %s: start date is after end date", e.Field)
	default:
		return fmt.Sprintf("field %s: invalid date, expected format %s", e.Field, DateLayout)
	}
}

// FilterSpec is the parsed, validated representation of one search
// request. It is consumed once to produce exactly one result view and
// never outlives the request.
type FilterSpec struct {
	// RawQuery is the free-text search term, possibly empty.
	RawQuery string

	// Sources are the explicitly checked source names, in the parser's
	// registration order. Empty means every registered source.
	Sources []string

	// Authors is the author filter list: trimmed, empties dropped,
	// duplicates and order preserved as submitted. Matching is an OR
	// across the list.
	Authors []string

	// DateStart and DateEnd bound the match timestamps inclusively.
	// A nil bound is unconstrained.
	DateStart *time.Time
	DateEnd   *time.Time

	// DateStartRaw and DateEndRaw keep the field text exactly as
	// submitted so next-page links reproduce it byte for byte.
	DateStartRaw string
	DateEndRaw   string

	// Page is the 1-based result page.
	Page int

	// PerPage is the page size, one of PerPageChoices.
	PerPage int
}

// Parser parses form input against a fixed set of registered source
// names. The set is process-wide configuration, fixed at startup.
type Parser struct {
	sources []string
}

// NewParser creates a parser for the given registered source names.
// The order determines the order of FilterSpec.Sources.
func NewParser(sources []string) *Parser {
	return &Parser{sources: append([]string(nil), sources...)}
}

// Sources returns the registered source names the parser knows about.
func (p *Parser) Sources() []string {
	return append([]string(nil), p.sources...)
}

// Parse converts form fields into a FilterSpec.
//
// Fields consumed: q, one checkbox per registered source name, author
// (repeatable), date_start, date_end, page, per_page. Only malformed
// dates fail the request; everything else degrades to a default.
func (p *Parser) Parse(form url.Values) (*FilterSpec, error) {
	spec := &FilterSpec{
		Page:    1,
		PerPage: DefaultPerPage,
	}

	spec.RawQuery = form.Get("q")

	for _, name := range p.sources {
		if checkboxChecked(form.Get(name)) {
			spec.Sources = append(spec.Sources, name)
		}
	}

	for _, author := range form["author"] {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}
		// Duplicates stay: repeating an inclusive filter is harmless
		// and may be intentional.
		spec.Authors = append(spec.Authors, author)
	}

	if raw := form.Get("date_start"); strings.TrimSpace(raw) != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &ParseError{Field: "date_start", Kind: InvalidDate}
		}
		spec.DateStart = &parsed
		spec.DateStartRaw = raw
	}

	if raw := form.Get("date_end"); strings.TrimSpace(raw) != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &ParseError{Field: "date_end", Kind: InvalidDate}
		}
		spec.DateEnd = &parsed
		spec.DateEndRaw = raw
	}

	if spec.DateStart != nil && spec.DateEnd != nil && spec.DateStart.After(*spec.DateEnd) {
		return nil, &ParseError{Field: "date_start", Kind: InvalidRange}
	}

	if pageStr := form.Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			spec.Page = parsed
		}
	}

	if perPageStr := form.Get("per_page"); perPageStr != "" {
		if parsed, err := strconv.Atoi(perPageStr); err == nil && validPerPage(parsed) {
			spec.PerPage = parsed
		}
	}

	return spec, nil
}

// IsBlank reports whether the spec came from a completely blank form:
// no query, no checked sources, no authors, no dates. Blank specs are
// defined to produce an empty result view without querying any source.
func (s *FilterSpec) IsBlank() bool {
	return s.RawQuery == "" &&
		len(s.Sources) == 0 &&
		len(s.Authors) == 0 &&
		s.DateStart == nil &&
		s.DateEnd == nil
}

// Values serializes the spec back to the form's field set. Parsing the
// result reproduces the active sources, author list and date strings
// exactly, which is what next-page links rely on.
func (s *FilterSpec) Values() url.Values {
	v := url.Values{}
	if s.RawQuery != "" {
		v.Set("q", s.RawQuery)
	}
	for _, name := range s.Sources {
		v.Set(name, "on")
	}
	for _, author := range s.Authors {
		v.Add("author", author)
	}
	if s.DateStartRaw != "" {
		v.Set("date_start", s.DateStartRaw)
	}
	if s.DateEndRaw != "" {
		v.Set("date_end", s.DateEndRaw)
	}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("per_page", strconv.Itoa(s.PerPage))
	return v
}

// NextPageValues is Values with the page advanced by one, for
// constructing the next-page link.
func (s *FilterSpec) NextPageValues() url.Values {
	v := s.Values()
	v.Set("page", strconv.Itoa(s.Page+1))
	return v
}

// checkboxChecked interprets HTML checkbox submissions.
func checkboxChecked(value string) bool {
	switch strings.ToLower(value) {
	case "on", "true", "1":
		return true
	}
	return false
}

func validPerPage(n int) bool {
	for _, choice := range PerPageChoices {
		if n == choice {
			return true
		}
	}
	return false
}
