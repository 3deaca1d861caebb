package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gilnokie-backend/config"
	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/mw"
	"gilnokie-backend/internal/notification"
	"gilnokie-backend/internal/store"
)

const testSecret = "test-secret"

var testNow = time.Date(2025, 1, 12, 9, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (d *recordingDispatcher) Dispatch(e notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) Events() []notification.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Event(nil), d.events...)
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	store    store.Store
	notifier *recordingDispatcher
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	s := store.NewGormStore(db, store.WithClock(func() time.Time { return testNow }))
	notifier := &recordingDispatcher{}
	h := NewHandler(s, nil, notifier, nil)
	h.now = func() time.Time { return testNow }

	router := NewRouter(h, RouterConfig{
		Server: config.ServerConfig{RateLimitPerSec: 1000, RateBurst: 1000, CacheTTLSeconds: 60},
		Auth:   mw.NewAuthenticator(testSecret, "sb-access-token"),
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &testServer{t: t, router: router, store: s, notifier: notifier, token: token}
}

// do sends an authenticated request. body may be nil, a string or any JSON-encodable value.
func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func dataObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return data
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].([]any)
	require.True(t, ok, w.Body.String())
	return data
}

// seedJobCard creates a customer, a quality and a job card through the store.
func (ts *testServer) seedJobCard() *model.CustomerOrder {
	ts.t.Helper()
	ctx := context.Background()

	yarn := &model.YarnType{Code: "PES-150", Active: true}
	require.NoError(ts.t, ts.store.CreateYarnType(ctx, yarn))
	customer := &model.Customer{Name: "Acme Textiles", Active: true}
	require.NoError(ts.t, ts.store.CreateCustomer(ctx, customer))
	quality := &model.FabricQuality{
		QualityCode: "Q-100",
		Active:      true,
		FabricContent: []model.FabricContent{
			{YarnTypeID: yarn.ID, Percentage: decimal.NewFromInt(100)},
		},
	}
	require.NoError(ts.t, ts.store.CreateQuality(ctx, quality))

	card := &model.CustomerOrder{
		CustomerID:       customer.ID,
		QualityID:        quality.ID,
		QuantityRequired: decimal.NewFromInt(500),
		OrderDate:        testNow,
	}
	require.NoError(ts.t, ts.store.CreateJobCard(ctx, card))
	return card
}

func TestRouter_Auth(t *testing.T) {
	ts := newTestServer(t)

	t.Run("health needs no token", func(t *testing.T) {
		ts.token = ""
		w := ts.do(http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "gilnokie-gms", body["service"])
	})

	t.Run("resources need a token", func(t *testing.T) {
		ts.token = ""
		w := ts.do(http.MethodGet, "/api/customers", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})

	t.Run("metrics are exposed at the root", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "gilnokie_http_requests_total")
	})
}

func TestRouter_CustomerLifecycle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/customers", map[string]any{"name": "Acme Textiles", "phone": "011 555 0100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := dataObject(t, w)
	id := created["id"].(string)
	assert.Equal(t, true, created["active"])

	w = ts.do(http.MethodGet, "/api/customers?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, w), 1)

	w = ts.do(http.MethodPatch, "/api/customers/"+id, map[string]any{"active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, dataObject(t, w)["active"])

	w = ts.do(http.MethodGet, "/api/customers?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dataList(t, w))

	t.Run("duplicate name", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/customers", map[string]any{"name": "Acme Textiles"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"Customer name already exists"}`, w.Body.String())
	})

	t.Run("missing name", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/customers", map[string]any{"phone": "1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Customer name is required"}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/customers", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
	})

	t.Run("unknown id", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/customers/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Customer not found"}`, w.Body.String())
	})
}

func TestRouter_JobCards(t *testing.T) {
	ts := newTestServer(t)
	seeded := ts.seedJobCard()

	t.Run("statuses route is not an id", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/job-cards/statuses?from=active&to=completed", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		assert.Len(t, data["statuses"], len(model.JobStatuses))
		assert.Equal(t, true, data["requiresConfirmation"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/job-cards", map[string]any{"customerId": seeded.CustomerID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing required fields: customerId, qualityId, quantityRequired"}`, w.Body.String())
	})

	t.Run("create numbers sequentially", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/job-cards", map[string]any{
			"customerId":       seeded.CustomerID,
			"qualityId":        seeded.QualityID,
			"quantityRequired": 250,
			"requiredByDate":   "2025-02-01",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := dataObject(t, w)
		assert.Equal(t, "JC-20250112-002", data["jobCardNumber"])
		assert.Equal(t, model.JobActive, data["status"])
		assert.NotNil(t, data["customer"])
	})

	t.Run("unknown customer", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/job-cards", map[string]any{
			"customerId":       uuid.NewString(),
			"qualityId":        seeded.QualityID,
			"quantityRequired": 10,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid customer or fabric quality"}`, w.Body.String())
	})

	t.Run("invalid status", func(t *testing.T) {
		w := ts.do(http.MethodPatch, "/api/job-cards/"+seeded.ID, map[string]any{"status": "shipped"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid status"}`, w.Body.String())
	})

	t.Run("blank status", func(t *testing.T) {
		for _, status := range []any{"", 0, false} {
			w := ts.do(http.MethodPatch, "/api/job-cards/"+seeded.ID, map[string]any{"status": status})
			assert.Equal(t, http.StatusBadRequest, w.Code, "status %v", status)
			assert.JSONEq(t, `{"error":"Invalid status"}`, w.Body.String())
		}

		w := ts.do(http.MethodGet, "/api/job-cards/"+seeded.ID, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, model.JobActive, dataObject(t, w)["status"])
		assert.Empty(t, ts.notifier.Events())
	})

	t.Run("status change is pushed", func(t *testing.T) {
		w := ts.do(http.MethodPatch, "/api/job-cards/"+seeded.ID, map[string]any{"status": model.JobOnHold})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, model.JobOnHold, dataObject(t, w)["status"])

		events := ts.notifier.Events()
		require.Len(t, events, 1)
		assert.Equal(t, seeded.ID, events[0].JobCardID)
		assert.Equal(t, model.JobOnHold, events[0].Status)
	})

	t.Run("progress", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/job-cards/"+seeded.ID+"/progress", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		required, err := decimal.NewFromString(dataObject(t, w)["quantityRequired"].(string))
		require.NoError(t, err)
		assert.True(t, required.Equal(decimal.NewFromInt(500)), required.String())
	})
}

func TestRouter_ProductionBatch(t *testing.T) {
	ts := newTestServer(t)
	card := ts.seedJobCard()

	testCases := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing job card",
			body:     map[string]any{"machineNumber": "Machine 8", "rolls": []any{map[string]any{"weight": 25}}},
			wantCode: http.StatusBadRequest,
			wantErr:  "jobCardId is required",
		},
		{
			name:     "missing machine",
			body:     map[string]any{"jobCardId": card.ID, "rolls": []any{map[string]any{"weight": 25}}},
			wantCode: http.StatusBadRequest,
			wantErr:  "machineNumber is required for piece number generation",
		},
		{
			name:     "empty rolls",
			body:     map[string]any{"jobCardId": card.ID, "machineNumber": "Machine 8", "rolls": []any{}},
			wantCode: http.StatusBadRequest,
			wantErr:  "rolls array is required and must contain at least one item",
		},
		{
			name:     "weight as string",
			body:     map[string]any{"jobCardId": card.ID, "machineNumber": "Machine 8", "rolls": []any{map[string]any{"weight": "25"}}},
			wantCode: http.StatusBadRequest,
			wantErr:  "Each roll must have a valid weight (positive number)",
		},
		{
			name:     "negative weight",
			body:     map[string]any{"jobCardId": card.ID, "machineNumber": "Machine 8", "rolls": []any{map[string]any{"weight": -1}}},
			wantCode: http.StatusBadRequest,
			wantErr:  "Each roll must have a valid weight (positive number)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/api/production/bulk", tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantErr, decodeBody(t, w)["error"])
		})
	}

	t.Run("records every roll", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/production/bulk", map[string]any{
			"jobCardId":     card.ID,
			"machineNumber": "Machine 8",
			"rolls":         []any{map[string]any{"weight": 25.5}, map[string]any{"weight": 24}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		pieces := dataList(t, w)
		require.Len(t, pieces, 2)
		first := pieces[0].(map[string]any)["pieceNumber"].(string)
		assert.True(t, strings.HasPrefix(first, "800"), first)
	})

	t.Run("single piece needs a positive weight", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/production", map[string]any{"jobCardId": card.ID, "weight": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Weight must be a positive number"}`, w.Body.String())
	})
}

func TestRouter_EstimateRolls(t *testing.T) {
	ts := newTestServer(t)
	card := ts.seedJobCard()

	t.Run("missing parameters", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/analytics/estimate-rolls?qualityId="+card.QualityID, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing required parameters: qualityId and kilos"}`, w.Body.String())
	})

	t.Run("invalid kilos", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/analytics/estimate-rolls?qualityId="+card.QualityID+"&kilos=-3", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid kilos value"}`, w.Body.String())
	})

	t.Run("no history", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/analytics/estimate-rolls?qualityId="+card.QualityID+"&kilos=100", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, w)
		assert.Equal(t, false, data["hasHistoricalData"])
		assert.Nil(t, data["estimatedRolls"])
		assert.Nil(t, data["avgRollWeight"])
		assert.Nil(t, data["confidence"])
	})

	t.Run("writes invalidate cached analytics", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/production/bulk", map[string]any{
			"jobCardId":     card.ID,
			"machineNumber": "Machine 2",
			"rolls":         []any{map[string]any{"weight": 25}, map[string]any{"weight": 25}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = ts.do(http.MethodGet, "/api/analytics/estimate-rolls?qualityId="+card.QualityID+"&kilos=100", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Cache"))
		data := dataObject(t, w)
		assert.Equal(t, true, data["hasHistoricalData"])
		assert.EqualValues(t, 4, data["estimatedRolls"])
		assert.EqualValues(t, 2, data["sampleSize"])

		w = ts.do(http.MethodGet, "/api/analytics/estimate-rolls?qualityId="+card.QualityID+"&kilos=100", nil)
		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	})
}

func TestRouter_DeliveryCompletesJobCard(t *testing.T) {
	ts := newTestServer(t)
	card := ts.seedJobCard()

	w := ts.do(http.MethodPost, "/api/delivery", map[string]any{"jobCardId": card.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/delivery", map[string]any{
		"jobCardId":       card.ID,
		"deliveryMethod":  "Courier",
		"deliveryAddress": "12 Mill Road, Durban",
		"deliveryStatus":  model.Delivered,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	delivery := body["data"].(map[string]any)
	assert.Equal(t, "DN-20250112-001", delivery["deliveryNoteNumber"])

	w = ts.do(http.MethodGet, "/api/job-cards/"+card.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.JobCompleted, dataObject(t, w)["status"])

	events := ts.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.JobCompleted, events[0].Status)
	assert.Equal(t, card.JobCardNumber, events[0].JobCardNumber)

	t.Run("delivery note pdf", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/pdf/delivery-note/"+delivery["id"].(string), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="delivery-note-DN-20250112-001.pdf"`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})
}

func TestRouter_JobCardPDF(t *testing.T) {
	ts := newTestServer(t)
	card := ts.seedJobCard()

	w := ts.do(http.MethodGet, "/api/pdf/job-card/"+card.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="job-card-`+card.JobCardNumber+`.pdf"`, w.Header().Get("Content-Disposition"))

	w = ts.do(http.MethodGet, "/api/pdf/packing-list/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
