package resultshandler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"review360/internal/domain/auth"
	"review360/internal/domain/evaluation"
	"review360/internal/domain/reports"
	"review360/internal/domain/scoring"
	"review360/internal/transport/http/api"
	"review360/internal/transport/http/middleware"
	"review360/internal/transport/http/shared"
)

type Service interface {
	Results(ctx context.Context, orgID, periodID string) (evaluation.PeriodResults, error)
	TargetResult(ctx context.Context, orgID, periodID, targetID string) (evaluation.Period, scoring.TargetScore, error)
	Development(ctx context.Context, orgID, periodID, targetID string) (evaluation.DevelopmentPlan, error)
	CategoryLabels(ctx context.Context, orgID, lang string) map[string]string
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/results", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermResultsAdmin, h.Perms)).Get("/", h.handleAdminResults)
		r.With(middleware.RequirePermission(auth.PermResultsAdmin, h.Perms)).Get("/{targetID}/report.pdf", h.handleTargetReport)
	})
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermResultsRead, h.Perms)).Get("/results", h.handleMyResults)
		r.With(middleware.RequirePermission(auth.PermResultsRead, h.Perms)).Get("/development", h.handleMyDevelopment)
	})
}

func requirePeriod(w http.ResponseWriter, r *http.Request) (string, bool) {
	periodID := shared.QueryPeriodID(r)
	v := shared.NewValidator()
	v.Required("periodId", periodID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return "", false
	}
	return periodID, true
}

func (h *Handler) labels(r *http.Request, orgID string) map[string]string {
	return h.Service.CategoryLabels(r.Context(), orgID, strings.TrimSpace(r.URL.Query().Get("lang")))
}

func (h *Handler) handleAdminResults(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID, ok := requirePeriod(w, r)
	if !ok {
		return
	}

	results, err := h.Service.Results(r.Context(), user.OrganizationID, periodID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluation.LabelResults(results, h.labels(r, user.OrganizationID)), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTargetReport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID, ok := requirePeriod(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "targetID")

	period, score, err := h.Service.TargetResult(r.Context(), user.OrganizationID, periodID, targetID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	score = evaluation.LabelCategories(score, h.labels(r, user.OrganizationID))

	var buf bytes.Buffer
	if err := reports.RenderTarget(&buf, period, score); err != nil {
		slog.Error("result report render failed", "targetId", targetID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=results-"+targetID+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("result report write failed", "err", err)
	}
}

func (h *Handler) handleMyResults(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID, ok := requirePeriod(w, r)
	if !ok {
		return
	}

	period, score, err := h.Service.TargetResult(r.Context(), user.OrganizationID, periodID, user.UserID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"period": period,
		"score":  evaluation.LabelCategories(score, h.labels(r, user.OrganizationID)),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyDevelopment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	periodID, ok := requirePeriod(w, r)
	if !ok {
		return
	}

	plan, err := h.Service.Development(r.Context(), user.OrganizationID, periodID, user.UserID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, evaluation.LabelDevelopment(plan, h.labels(r, user.OrganizationID)), middleware.GetRequestID(r.Context()))
}
