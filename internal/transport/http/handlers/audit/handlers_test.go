package audithandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"review360/internal/domain/audit"
	"review360/internal/domain/auth"
	"review360/internal/transport/http/middleware"
)

type fakeService struct {
	filter  audit.Filter
	limit   int
	offset  int
	details bool
}

func (f *fakeService) Count(_ context.Context, _ string, filter audit.Filter) (int, error) {
	return 42, nil
}

func (f *fakeService) List(_ context.Context, _ string, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error) {
	f.filter, f.details, f.limit, f.offset = filter, includeDetails, limit, offset
	return nil, nil
}

func TestListEvents(t *testing.T) {
	svc := &fakeService{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u1", OrganizationID: "acme", RoleName: auth.RoleAdmin}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc, auth.DefaultPolicy()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/audit/events?action=period.snapshot&limit=10&offset=20&includeDetails=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "42" {
		t.Fatalf("expected total 42, got %q", got)
	}
	if svc.filter.Action != "period.snapshot" || svc.limit != 10 || svc.offset != 20 || !svc.details {
		t.Fatalf("unexpected query: %+v limit=%d offset=%d details=%v", svc.filter, svc.limit, svc.offset, svc.details)
	}
}
