package query

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func testParser() *Parser {
	return NewParser([]string{"changeset", "ticket", "wiki"})
}

func TestParseDefaults(t *testing.T) {
	spec, err := testParser().Parse(url.Values{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if spec.Page != 1 {
		t.Errorf("expected page 1, got %d", spec.Page)
	}
	if spec.PerPage != DefaultPerPage {
		t.Errorf("expected per page %d, got %d", DefaultPerPage, spec.PerPage)
	}
	if !spec.IsBlank() {
		t.Error("expected empty form to parse as blank")
	}
}

func TestParseQueryAndSources(t *testing.T) {
	form := url.Values{}
	form.Set("q", "database migration")
	form.Set("ticket", "on")
	form.Set("wiki", "on")

	spec, err := testParser().Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if spec.RawQuery != "database migration" {
		t.Errorf("expected query preserved, got %q", spec.RawQuery)
	}
	if len(spec.Sources) != 2 || spec.Sources[0] != "ticket" || spec.Sources[1] != "wiki" {
		t.Errorf("expected sources [ticket wiki], got %v", spec.Sources)
	}
	if spec.IsBlank() {
		t.Error("spec with query should not be blank")
	}
}

func TestParseCheckboxValues(t *testing.T) {
	tests := []struct {
		value   string
		checked bool
	}{
		{"on", true},
		{"true", true},
		{"1", true},
		{"ON", true},
		{"", false},
		{"off", false},
		{"0", false},
		{"yes", false},
	}

	for _, tt := range tests {
		form := url.Values{}
		if tt.value != "" {
			form.Set("ticket", tt.value)
		}
		spec, err := testParser().Parse(form)
		if err != nil {
			t.Fatalf("Parse failed for %q: %v", tt.value, err)
		}
		got := len(spec.Sources) == 1
		if got != tt.checked {
			t.Errorf("checkbox value %q: expected checked=%v, got %v", tt.value, tt.checked, got)
		}
	}
}

func TestParseAuthors(t *testing.T) {
	form := url.Values{}
	form["author"] = []string{"  alice ", "", "bob", "   ", "alice"}

	spec, err := testParser().Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"alice", "bob", "alice"}
	if len(spec.Authors) != len(want) {
		t.Fatalf("expected authors %v, got %v", want, spec.Authors)
	}
	for i, author := range want {
		if spec.Authors[i] != author {
			t.Errorf("author %d: expected %q, got %q", i, author, spec.Authors[i])
		}
	}
}

func TestParseDates(t *testing.T) {
	form := url.Values{}
	form.Set("date_start", "2024-01-15 00:00:00")
	form.Set("date_end", "2024-02-01 23:59:59")

	spec, err := testParser().Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	wantStart := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if spec.DateStart == nil || !spec.DateStart.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, spec.DateStart)
	}
	if spec.DateStartRaw != "2024-01-15 00:00:00" {
		t.Errorf("expected raw start preserved, got %q", spec.DateStartRaw)
	}
	if spec.DateEnd == nil {
		t.Fatal("expected end date parsed")
	}
}

func TestParseInvalidDate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"wrong separator", "date_start", "2024/01/15 00:00:00"},
		{"date only", "date_start", "2024-01-15"},
		{"garbage", "date_end", "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set(tt.field, tt.value)

			_, err := testParser().Parse(form)
			if err == nil {
				t.Fatal("expected parse error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if parseErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, parseErr.Field)
			}
			if parseErr.Kind != InvalidDate {
				t.Errorf("expected InvalidDate, got %v", parseErr.Kind)
			}
		})
	}
}

func TestParseInvertedDateRange(t *testing.T) {
	form := url.Values{}
	form.Set("date_start", "2024-02-01 00:00:00")
	form.Set("date_end", "2024-01-01 00:00:00")

	_, err := testParser().Parse(form)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Kind != InvalidRange {
		t.Errorf("expected InvalidRange, got %v", parseErr.Kind)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"valid values", "3", "50", 3, 50},
		{"zero page clamps", "0", "25", 1, 25},
		{"negative page clamps", "-2", "25", 1, 25},
		{"non-numeric page", "abc", "25", 1, 25},
		{"per page not a choice", "1", "33", 1, DefaultPerPage},
		{"per page non-numeric", "1", "lots", 1, DefaultPerPage},
		{"per page negative", "1", "-10", 1, DefaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("page", tt.page)
			form.Set("per_page", tt.perPage)

			spec, err := testParser().Parse(form)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if spec.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, spec.Page)
			}
			if spec.PerPage != tt.wantPerPage {
				t.Errorf("expected per page %d, got %d", tt.wantPerPage, spec.PerPage)
			}
		})
	}
}

func TestParseUnknownSourceCheckboxIgnored(t *testing.T) {
	form := url.Values{}
	form.Set("q", "test")
	form.Set("mailinglist", "on")

	spec, err := testParser().Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(spec.Sources) != 0 {
		t.Errorf("expected no sources, got %v", spec.Sources)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	form := url.Values{}
	form.Set("q", "fix login")
	form.Set("ticket", "on")
	form.Set("changeset", "on")
	form["author"] = []string{"alice", "bob"}
	form.Set("date_start", "2024-01-15 00:00:00")
	form.Set("page", "2")
	form.Set("per_page", "50")

	parser := testParser()
	spec, err := parser.Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reparsed, err := parser.Parse(spec.Values())
	if err != nil {
		t.Fatalf("reparsing serialized values failed: %v", err)
	}

	if reparsed.RawQuery != spec.RawQuery {
		t.Errorf("query not preserved: %q vs %q", reparsed.RawQuery, spec.RawQuery)
	}
	if len(reparsed.Sources) != len(spec.Sources) {
		t.Errorf("sources not preserved: %v vs %v", reparsed.Sources, spec.Sources)
	}
	if len(reparsed.Authors) != 2 || reparsed.Authors[0] != "alice" || reparsed.Authors[1] != "bob" {
		t.Errorf("authors not preserved: %v", reparsed.Authors)
	}
	if reparsed.DateStartRaw != spec.DateStartRaw {
		t.Errorf("date text not preserved: %q vs %q", reparsed.DateStartRaw, spec.DateStartRaw)
	}
	if reparsed.Page != 2 || reparsed.PerPage != 50 {
		t.Errorf("pagination not preserved: page=%d per_page=%d", reparsed.Page, reparsed.PerPage)
	}
}

func TestNextPageValues(t *testing.T) {
	form := url.Values{}
	form.Set("q", "test")
	form.Set("page", "3")

	spec, err := testParser().Parse(form)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	next := spec.NextPageValues()
	if got := next.Get("page"); got != "4" {
		t.Errorf("expected next page 4, got %s", got)
	}
	if got := next.Get("q"); got != "test" {
		t.Errorf("expected query preserved in next page link, got %q", got)
	}
}
