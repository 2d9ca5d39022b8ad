package coefficientshandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"review360/internal/domain/audit"
	"review360/internal/domain/auth"
	"review360/internal/domain/scoring"
	"review360/internal/transport/http/api"
	"review360/internal/transport/http/middleware"
	"review360/internal/transport/http/shared"
)

type Service interface {
	Coefficients(ctx context.Context, orgID, periodID string) (scoring.Coefficients, error)
	SnapshotPeriod(ctx context.Context, orgID, periodID string) (scoring.Coefficients, error)
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
	r.With(middleware.RequirePermission(auth.PermResultsAdmin, h.Perms)).Get("/admin/coefficients", h.handleGetCoefficients)
	r.With(middleware.RequirePermission(auth.PermCoefficientsWrite, h.Perms)).Post("/admin/periods/{periodID}/snapshot", h.handleSnapshot)
}

func (h *Handler) handleGetCoefficients(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID := shared.QueryPeriodID(r)
	v := shared.NewValidator()
	v.Required("periodId", periodID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	coeffs, err := h.Service.Coefficients(r.Context(), user.OrganizationID, periodID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, coeffs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID := chi.URLParam(r, "periodID")

	coeffs, err := h.Service.SnapshotPeriod(r.Context(), user.OrganizationID, periodID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), audit.Entry{
			OrganizationID: user.OrganizationID,
			ActorID:        user.UserID,
			Action:         audit.ActionPeriodSnapshot,
			EntityType:     audit.EntityPeriod,
			EntityID:       periodID,
			RequestID:      middleware.GetRequestID(r.Context()),
			IP:             shared.ClientIP(r),
			After:          coeffs,
		}); err != nil {
			slog.Warn("audit period snapshot failed", "err", err)
		}
	}
	api.Created(w, coeffs, middleware.GetRequestID(r.Context()))
}
