package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
	"github.com/beacon-lab/project-beacon/internal/core/storage/memory"
	"github.com/beacon-lab/project-beacon/internal/metric"
	storagemocks "github.com/beacon-lab/project-beacon/internal/mocks/storage"
	"github.com/beacon-lab/project-beacon/internal/profile"
	"github.com/beacon-lab/project-beacon/internal/schema"
	"github.com/beacon-lab/project-beacon/internal/tracking"
)

type testEnv struct {
	router   *gin.Engine
	store    *memory.Store
	registry *metric.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	validator := schema.NewValidator(0)
	registry := metric.NewRegistry(store, validator)
	svc := NewService(
		profile.NewResolver(store),
		tracking.NewRecorder(registry, validator, store),
		store, store, 1,
	)

	r := gin.New()
	svc.RegisterRoutes(r)
	return &testEnv{router: r, store: store, registry: registry}
}

func (e *testEnv) post(path, body string) *httptest.ResponseRecorder {
	return serve(e.router, http.MethodPost, path, body)
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return serve(e.router, http.MethodGet, path, "")
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body
}

func dataOf(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decode(t, resp)["data"].(map[string]interface{})
	require.True(t, ok, resp.Body.String())
	return data
}

func TestIdentifyHandler_Success(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/identify", `{"userId":"user-1","traits":{"name":"Ada","age":36}}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "User identified successfully", body["message"])
	require.Equal(t, "user-1", body["data"].(map[string]interface{})["profileId"])

	p, err := env.store.FindProfileByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, p.IsAnonymous)
	require.True(t, jsonvalue.MustObject(map[string]any{"name": "Ada", "age": 36}).Equal(p.Properties))
}

func TestIdentifyHandler_IgnoresClientTimestamp(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/identify", `{"userId":"user-1","timestamp":"yesterday"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	p, err := env.store.FindProfileByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), p.LastSeenAt, time.Minute)
}

func TestIdentifyHandler_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantType  string
		wantError string
	}{
		{"malformed json", `{"userId":`, "invalid_json", "Invalid JSON body"},
		{"traits not an object", `{"userId":"u","traits":["a"]}`, "invalid_json", "Invalid JSON body"},
		{"missing userId", `{"anonymousId":"anon-1"}`, "invalid_request", "userId: is required"},
		{"userId too long", `{"userId":"` + strings.Repeat("u", 101) + `"}`, "invalid_request", "userId: must be at most 100 characters, got 101"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.post("/identify", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			body := decode(t, resp)
			require.Equal(t, false, body["success"])
			require.Equal(t, tc.wantType, body["error_type"])
			require.Equal(t, tc.wantError, body["error"])
		})
	}
}

func TestTrackHandler_AnonymousEvent(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/track", `{"event":"page_view","anonymousId":"anon-1","properties":{"path":"/home","price":19.90}}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode(t, resp)
	require.Equal(t, "Event tracked successfully", body["message"])
	require.NotContains(t, body, "note")
	data := body["data"].(map[string]interface{})
	eventID := data["eventId"].(string)
	profileID := data["profileId"].(string)

	resp = env.get("/v1/events/" + eventID)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"price":19.90`, "properties are stored verbatim")
	evt := dataOf(t, resp)
	require.Equal(t, profileID, evt["profileId"])

	resp = env.get("/v1/profiles/" + profileID)
	require.Equal(t, http.StatusOK, resp.Code)
	p := dataOf(t, resp)
	require.Equal(t, "anon-1", p["anonymousId"])
	require.Equal(t, true, p["isAnonymous"])
}

func TestTrackHandler_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name      string
		body      string
		wantType  string
		wantError string
	}{
		{"missing event", `{"anonymousId":"a"}`, "invalid_request", "event: is required"},
		{"missing identifiers", `{"event":"page_view"}`, "identifier_required", "either userId or anonymousId must be provided"},
		{"properties not an object", `{"event":"e","anonymousId":"a","properties":7}`, "invalid_json", "Invalid JSON body"},
		{"number exponent out of range", `{"event":"e","anonymousId":"a","properties":{"latitude":1e50000000}}`, "invalid_json", "Invalid JSON body"},
		{"event too long", `{"event":"` + strings.Repeat("e", 101) + `","anonymousId":"a"}`, "invalid_request", "event: must be at most 100 characters, got 101"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.post("/track", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)

			body := decode(t, resp)
			require.Equal(t, tc.wantType, body["error_type"])
			require.Equal(t, tc.wantError, body["error"])
		})
	}
}

func TestTrackHandler_SchemaValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registry.Define(context.Background(), metric.Definition{
		Name: "demographics",
		Schema: jsonvalue.MustObject(map[string]any{
			"type":       "object",
			"properties": map[string]any{"ageRange": map[string]any{"type": "string"}},
			"required":   []any{"ageRange"},
		}),
	})
	require.NoError(t, err)

	resp := env.post("/track", `{"event":"demographics","anonymousId":"anon-1","properties":{"ageRange":30}}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body := decode(t, resp)
	require.Equal(t, "schema_validation_failed", body["error_type"])
	require.Equal(t, "field '/ageRange': expected string, got integer", body["error"])
	details := body["details"].(map[string]interface{})
	require.Equal(t, "demographics", details["event"])
	require.Len(t, details["violations"], 1)
}

func TestTrackHandler_UnknownUserGetsNote(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/track", `{"event":"signup","userId":"stranger"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode(t, resp)
	require.Contains(t, body["note"], "anonymous profile")

	p, err := env.store.FindProfileByAnonymousID(context.Background(), "stranger")
	require.NoError(t, err)
	require.True(t, p.IsAnonymous)
	require.Equal(t, p.ID, body["data"].(map[string]interface{})["profileId"])
}

func TestAnonymousHistoryFollowsIdentify(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/api/v0/track", `{"event":"page_view","anonymousId":"anon-456","properties":{"path":"/home"}}`)
	require.Equal(t, http.StatusOK, resp.Code)
	eventID := dataOf(t, resp)["eventId"].(string)

	resp = env.post("/api/v0/identify", `{"userId":"test-user-2","anonymousId":"anon-456","traits":{"name":"X"}}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test-user-2", dataOf(t, resp)["profileId"])

	resp = env.get("/v1/profiles/test-user-2")
	require.Equal(t, http.StatusOK, resp.Code)
	p := dataOf(t, resp)
	require.Equal(t, false, p["isAnonymous"])
	require.Equal(t, map[string]interface{}{"name": "X"}, p["properties"])

	resp = env.get("/v1/events/" + eventID)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test-user-2", dataOf(t, resp)["profileId"])

	// Tracking by user id now resolves to the identified profile.
	resp = env.post("/track", `{"event":"page_view","userId":"test-user-2"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test-user-2", dataOf(t, resp)["profileId"])
}

func TestBodySizeLimit(t *testing.T) {
	env := newTestEnv(t)

	large := `{"event":"e","anonymousId":"a","properties":{"blob":"` + strings.Repeat("x", 1024*1024) + `"}}`
	resp := env.post("/track", large)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

	body := decode(t, resp)
	require.Equal(t, "payload_too_large", body["error_type"])
	require.Equal(t, float64(1), body["details"].(map[string]interface{})["max_size_mb"])
}

func TestLookups_NotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/v1/profiles/nobody", "/v1/events/nothing"} {
		resp := env.get(path)
		require.Equal(t, http.StatusNotFound, resp.Code, path)
		require.Equal(t, "not_found", decode(t, resp)["error_type"])
	}
}

func TestStorageFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	validator := schema.NewValidator(0)
	registry := metric.NewRegistry(store, validator)

	events := storagemocks.NewEventStore(t)
	events.EXPECT().
		CreateEvent(mock.Anything, mock.AnythingOfType("*v1.Event")).
		Return(errors.New("disk full")).
		Once()
	events.EXPECT().
		FindEventByID(mock.Anything, "evt-1").
		Return(nil, errors.New("connection refused")).
		Once()

	profiles := storagemocks.NewProfileStore(t)
	profiles.EXPECT().
		UpsertProfileByAnonymousID(mock.Anything, "anon-1", mock.Anything, mock.Anything).
		Return(&v1.Profile{ID: "p-1", AnonymousID: "anon-1", IsAnonymous: true}, nil).
		Once()
	profiles.EXPECT().
		UpsertProfileByID(mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).
		Once()

	svc := NewService(profile.NewResolver(profiles), tracking.NewRecorder(registry, validator, events), profiles, events, 1)
	r := gin.New()
	svc.RegisterRoutes(r)

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantError string
	}{
		{"track persist", http.MethodPost, "/track", `{"event":"e","anonymousId":"anon-1"}`, "Failed to track event"},
		{"identify upsert", http.MethodPost, "/identify", `{"userId":"user-1"}`, "Failed to identify user"},
		{"event lookup", http.MethodGet, "/v1/events/evt-1", "", "Failed to load record"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(r, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusInternalServerError, resp.Code)

			body := decode(t, resp)
			require.Equal(t, "internal_error", body["error_type"])
			require.Equal(t, tc.wantError, body["error"])
			require.NotContains(t, resp.Body.String(), "connection refused")
			require.NotContains(t, resp.Body.String(), "disk full")
		})
	}
}

func TestIdentifyHandler_ConflictMapsTo409(t *testing.T) {
	gin.SetMode(gin.TestMode)

	profiles := storagemocks.NewProfileStore(t)
	profiles.EXPECT().
		UpsertProfileByID(mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return(nil, storage.ErrConflict).
		Once()

	store := memory.NewStore()
	validator := schema.NewValidator(0)
	svc := NewService(profile.NewResolver(profiles),
		tracking.NewRecorder(metric.NewRegistry(store, validator), validator, store), profiles, store, 1)
	r := gin.New()
	svc.RegisterRoutes(r)

	resp := serve(r, http.MethodPost, "/identify", `{"userId":"user-1"}`)
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, "conflict", decode(t, resp)["error_type"])
}

func TestTrackHandler_TimestampIsKept(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post("/track", `{"event":"e","anonymousId":"a","timestamp":"2024-05-01T12:00:00+02:00"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	eventID := dataOf(t, resp)["eventId"].(string)

	evt, err := env.store.FindEventByID(context.Background(), eventID)
	require.NoError(t, err)
	require.Equal(t, "2024-05-01T10:00:00Z", evt.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}
