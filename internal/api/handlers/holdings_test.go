package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/testutil"
)

func requestWithUser(method, target, userID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHoldingsHandler_AddHolding(t *testing.T) {
	t.Run("creates a holding and returns 201", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		w := httptest.NewRecorder()
		handler.AddHolding(w, requestWithUser(http.MethodPost, "/api/users/"+user.ID+"/holdings", user.ID,
			`{"ticker": "aapl", "shares": 10, "avgPrice": 150.5}`))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var holding model.Holding
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&holding)

		if holding.Ticker != "AAPL" {
			t.Errorf("Expected normalized ticker AAPL, got %q", holding.Ticker)
		}
		if holding.Shares != 10 || holding.AvgPrice != 150.5 {
			t.Errorf("Expected stored values, got %+v", holding)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		w := httptest.NewRecorder()
		handler.AddHolding(w, requestWithUser(http.MethodPost, "/api/users/"+user.ID+"/holdings", user.ID,
			`{"ticker": `))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for failed validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		w := httptest.NewRecorder()
		handler.AddHolding(w, requestWithUser(http.MethodPost, "/api/users/"+user.ID+"/holdings", user.ID,
			`{"ticker": "AAPL", "shares": -1, "avgPrice": 150}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for an unknown ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient().WithQuoteError(apperrors.ErrTickerNotFound)
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		w := httptest.NewRecorder()
		handler.AddHolding(w, requestWithUser(http.MethodPost, "/api/users/"+user.ID+"/holdings", user.ID,
			`{"ticker": "ZZZZ", "shares": 10, "avgPrice": 150}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 429 when the provider is rate limited", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient().WithQuoteError(apperrors.ErrProviderRateLimited)
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		w := httptest.NewRecorder()
		handler.AddHolding(w, requestWithUser(http.MethodPost, "/api/users/"+user.ID+"/holdings", user.ID,
			`{"ticker": "AAPL", "shares": 10, "avgPrice": 150}`))

		if w.Code != http.StatusTooManyRequests {
			t.Errorf("Expected 429, got %d", w.Code)
		}
	})
}

func TestHoldingsHandler_ListHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	provider := testutil.NewMockProviderClient()
	handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
	user := testutil.NewUser().Build(t, db)
	testutil.NewHolding(user.ID).WithTicker("AAPL").Build(t, db)
	testutil.NewHolding(user.ID).WithTicker("MSFT").Build(t, db)

	w := httptest.NewRecorder()
	handler.ListHoldings(w, requestWithUser(http.MethodGet, "/api/users/"+user.ID+"/holdings", user.ID, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var holdings []model.Holding
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&holdings)

	if len(holdings) != 2 {
		t.Errorf("Expected 2 holdings, got %d", len(holdings))
	}
}

func TestHoldingsHandler_DeleteHolding(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)
		holding := testutil.NewHolding(user.ID).Build(t, db)

		req := requestWithUser(http.MethodDelete, "/api/users/"+user.ID+"/holdings/"+holding.ID, user.ID, "")
		chi.RouteContext(req.Context()).URLParams.Add("holdingId", holding.ID)

		w := httptest.NewRecorder()
		handler.DeleteHolding(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
	})

	t.Run("returns 404 for a missing holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		handler := NewHoldingsHandler(testutil.NewTestHoldingsService(t, db, provider))
		user := testutil.NewUser().Build(t, db)

		req := requestWithUser(http.MethodDelete, "/api/users/"+user.ID+"/holdings/"+testutil.MakeID(), user.ID, "")
		chi.RouteContext(req.Context()).URLParams.Add("holdingId", testutil.MakeID())

		w := httptest.NewRecorder()
		handler.DeleteHolding(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
