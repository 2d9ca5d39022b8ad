package compensationhandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"review360/internal/domain/audit"
	"review360/internal/domain/auth"
	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
	"review360/internal/transport/http/api"
	"review360/internal/transport/http/middleware"
	"review360/internal/transport/http/shared"
)

type Service interface {
	Compensation(ctx context.Context, req evaluation.CompensationRequest) (evaluation.CompensationResult, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   AuditRecorder
}

func NewHandler(service Service, perms middleware.PermissionStore, auditSvc AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/compensation", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCompensationRead, h.Perms)).Get("/recommendations", h.handleRecommendations)
	})
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	q := r.URL.Query()
	v := shared.NewValidator()
	req := evaluation.CompensationRequest{
		OrganizationID: user.OrganizationID,
		PeriodID:       shared.QueryPeriodID(r),
		Pool:           q.Get("pool"),
		MinPct:         v.Float("minPct", q.Get("minPct")),
		MaxPct:         v.Float("maxPct", q.Get("maxPct")),
	}
	v.Required("periodId", req.PeriodID, "is required")
	v.Enum("pool", req.Pool, []string{string(scoring.PoolOrganization), string(scoring.PoolDepartment), string(scoring.PoolManager)}, "must be org, department or manager")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Compensation(r.Context(), req)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), audit.Entry{
			OrganizationID: user.OrganizationID,
			ActorID:        user.UserID,
			Action:         audit.ActionCompensationRecommend,
			EntityType:     audit.EntityPeriod,
			EntityID:       req.PeriodID,
			RequestID:      middleware.GetRequestID(r.Context()),
			IP:             shared.ClientIP(r),
			After: map[string]any{
				"pool":   result.Pool,
				"minPct": result.MinPct,
				"maxPct": result.MaxPct,
				"rows":   len(result.Rows),
			},
		}); err != nil {
			slog.Warn("audit compensation recommend failed", "err", err)
		}
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
