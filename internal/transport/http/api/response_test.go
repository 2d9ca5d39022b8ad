package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"review360/internal/domain/scoring"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestFailErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{scoring.Validation("bad pool", "use org"), http.StatusBadRequest},
		{scoring.NotFound("no period", "check id"), http.StatusNotFound},
		{scoring.DataUnavailable("weights", "migrate", errors.New("42P01")), http.StatusServiceUnavailable},
		{scoring.Configuration("no managers", "assign managers", scoring.ErrManagersNotConfigured), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		FailError(rec, tc.err, "req-1")
		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		env := decode(t, rec)
		if env.Success || env.Error == nil || env.RequestID != "req-1" {
			t.Fatalf("unexpected envelope %+v", env)
		}
	}
}

func TestFailErrorCarriesHint(t *testing.T) {
	rec := httptest.NewRecorder()
	FailError(rec, scoring.Configuration("managers not configured", "set manager_id on users", scoring.ErrManagersNotConfigured), "")
	env := decode(t, rec)
	if env.Error.Code != "configuration" {
		t.Fatalf("expected configuration code, got %q", env.Error.Code)
	}
	if env.Error.Details["hint"] != "set manager_id on users" {
		t.Fatalf("expected hint detail, got %v", env.Error.Details)
	}
}

func TestFailErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	FailError(rec, errors.New("password=hunter2"), "")
	if env := decode(t, rec); env.Error.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", env.Error.Message)
	}
}
