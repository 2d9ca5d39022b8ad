package resultshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"review360/internal/domain/auth"
	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
	"review360/internal/transport/http/middleware"
)

type fakeService struct {
	score     scoring.TargetScore
	err       error
	lastOrg   string
	lastTgt   string
	labelLang string
}

func (f *fakeService) Results(_ context.Context, orgID, periodID string) (evaluation.PeriodResults, error) {
	f.lastOrg = orgID
	if f.err != nil {
		return evaluation.PeriodResults{}, f.err
	}
	return evaluation.PeriodResults{Period: evaluation.Period{ID: periodID}, Targets: []scoring.TargetScore{f.score}}, nil
}

func (f *fakeService) TargetResult(_ context.Context, orgID, periodID, targetID string) (evaluation.Period, scoring.TargetScore, error) {
	f.lastOrg, f.lastTgt = orgID, targetID
	if f.err != nil {
		return evaluation.Period{}, scoring.TargetScore{}, f.err
	}
	return evaluation.Period{ID: periodID, Name: "2025 H1"}, f.score, nil
}

func (f *fakeService) Development(_ context.Context, orgID, periodID, targetID string) (evaluation.DevelopmentPlan, error) {
	f.lastOrg, f.lastTgt = orgID, targetID
	if f.err != nil {
		return evaluation.DevelopmentPlan{}, f.err
	}
	return evaluation.DevelopmentPlan{Score: f.score, Gaps: f.score.CategoryCompare, ActionPlan: []string{"practice Teamwork"}}, nil
}

func (f *fakeService) CategoryLabels(_ context.Context, _, lang string) map[string]string {
	f.labelLang = lang
	if lang == "tr" {
		return map[string]string{"Teamwork": "Ekip Çalışması"}
	}
	return nil
}

func newRouter(svc Service, user *auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *user))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(svc, auth.DefaultPolicy()).RegisterRoutes(r)
	return r
}

func sampleScore() scoring.TargetScore {
	return scoring.TargetScore{
		Target:     scoring.Target{ID: "alice", Name: "Alice", Department: "eng"},
		OverallAvg: 3.9,
		SelfScore:  4.0,
		PeerAvg:    3.5,
		PeerCount:  2,
		CategoryCompare: []scoring.CategoryCompare{
			{Name: "Teamwork", Self: 4, Peer: 3, Diff: 1, HasSelf: true, HasPeer: true},
		},
	}
}

func TestAdminResults(t *testing.T) {
	admin := &auth.UserContext{UserID: "root", OrganizationID: "acme", RoleName: auth.RoleAdmin}
	member := &auth.UserContext{UserID: "alice", OrganizationID: "acme", RoleName: auth.RoleMember}

	tests := []struct {
		name   string
		user   *auth.UserContext
		path   string
		err    error
		status int
	}{
		{name: "admin gets results", user: admin, path: "/admin/results?periodId=p1", status: http.StatusOK},
		{name: "member is forbidden", user: member, path: "/admin/results?periodId=p1", status: http.StatusForbidden},
		{name: "anonymous is unauthorized", path: "/admin/results?periodId=p1", status: http.StatusUnauthorized},
		{name: "missing period", user: admin, path: "/admin/results", status: http.StatusBadRequest},
		{name: "no data", user: admin, path: "/admin/results?periodId=p1", err: scoring.NotFound("no completed evaluations", "submit one"), status: http.StatusNotFound},
		{name: "schema drift", user: admin, path: "/admin/results?periodId=p1", err: scoring.DataUnavailable("weights unavailable", "migrate", nil), status: http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{score: sampleScore(), err: tc.err}
			rec := httptest.NewRecorder()
			newRouter(svc, tc.user).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminResultsLabelsCategories(t *testing.T) {
	svc := &fakeService{score: sampleScore()}
	admin := &auth.UserContext{UserID: "root", OrganizationID: "acme", RoleName: auth.RoleAdmin}
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/results?periodId=p1&lang=tr", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data evaluation.PeriodResults `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body.Data.Targets[0].CategoryCompare[0].Name; got != "Ekip Çalışması" {
		t.Fatalf("expected translated category, got %q", got)
	}
	if svc.lastOrg != "acme" {
		t.Fatalf("expected org scope acme, got %q", svc.lastOrg)
	}
}

func TestMyResultsUsesCaller(t *testing.T) {
	svc := &fakeService{score: sampleScore()}
	member := &auth.UserContext{UserID: "alice", OrganizationID: "acme", RoleName: auth.RoleMember}
	for _, path := range []string{"/dashboard/results?periodId=p1", "/dashboard/development?periodId=p1"} {
		rec := httptest.NewRecorder()
		newRouter(svc, member).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if svc.lastTgt != "alice" {
			t.Fatalf("%s: expected caller as target, got %q", path, svc.lastTgt)
		}
	}
}

func TestTargetReportIsPDF(t *testing.T) {
	svc := &fakeService{score: sampleScore()}
	admin := &auth.UserContext{UserID: "root", OrganizationID: "acme", RoleName: auth.RoleAdmin}
	rec := httptest.NewRecorder()
	newRouter(svc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/results/alice/report.pdf?periodId=p1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected pdf body")
	}
	if svc.lastTgt != "alice" {
		t.Fatalf("expected target alice, got %q", svc.lastTgt)
	}
}
