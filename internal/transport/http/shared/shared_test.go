package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidatorFloat(t *testing.T) {
	v := NewValidator()
	if got := v.Float("minPct", ""); got != nil {
		t.Fatalf("expected nil for blank, got %v", *got)
	}
	if got := v.Float("minPct", " 2.5 "); got == nil || *got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if v.HasIssues() {
		t.Fatalf("expected no issues, got %v", v.Issues())
	}
	v.Float("maxPct", "ten")
	issues := v.Issues()
	if len(issues) != 1 || issues[0].Field != "maxPct" {
		t.Fatalf("expected maxPct issue, got %v", issues)
	}
}

func TestValidatorRejectWritesBadRequest(t *testing.T) {
	v := NewValidator()
	v.Required("periodId", "", "is required")
	v.Enum("pool", "team", []string{"org", "department", "manager"}, "must be org, department or manager")
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req") {
		t.Fatalf("expected reject")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{name: "defaults", query: "", limit: 100, offset: 0},
		{name: "explicit", query: "?limit=20&offset=40", limit: 20, offset: 40},
		{name: "capped", query: "?limit=9000", limit: 500, offset: 0},
		{name: "malformed", query: "?limit=abc&offset=-3", limit: 100, offset: 0},
		{name: "zero limit", query: "?limit=0", limit: 100, offset: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/events"+tc.query, nil)
			page := ParsePagination(r, 100, 500)
			if page.Limit != tc.limit || page.Offset != tc.offset {
				t.Fatalf("expected %d/%d, got %d/%d", tc.limit, tc.offset, page.Limit, page.Offset)
			}
		})
	}
}

func TestValidatorFloatRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-inf"} {
		v := NewValidator()
		if got := v.Float("minPct", raw); got != nil {
			t.Fatalf("%s: expected nil, got %v", raw, *got)
		}
		if !v.HasIssues() {
			t.Fatalf("%s: expected an issue", raw)
		}
	}
}

func TestValidatorIssuesOrderedByField(t *testing.T) {
	v := NewValidator()
	v.Required("periodId", "", "is required")
	v.Float("maxPct", "x")
	v.Add("minPct", "  ")
	issues := v.Issues()
	if len(issues) != 2 || issues[0].Field != "maxPct" || issues[1].Field != "periodId" {
		t.Fatalf("unexpected issues %v", issues)
	}
}
