package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/basepoint-api/internal/api"
	v1 "github.com/vietanh2810/basepoint-api/internal/api/handler/v1"
	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/basepoint-api/internal/config"
	"github.com/vietanh2810/basepoint-api/internal/dbtest"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/notify"
	"github.com/vietanh2810/basepoint-api/internal/repository"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

const password = "s3cret!pass"

type testServer struct {
	t      *testing.T
	server *api.Server
	auth   *service.AuthService
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	gdb := dbtest.Open(t)
	userRepo := repository.NewUserRepository(dao.NewUserDAO(gdb))
	factionRepo := repository.NewFactionRepository(dao.NewFactionDAO(gdb))
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)

	feed := v1.NewFeedHub(userSvc, nil)
	territorySvc := service.NewTerritoryService(
		repository.NewTerritoryRepository(dao.NewTerritoryDAO(gdb)),
		repository.NewSessionRepository(dao.NewSessionDAO(gdb)),
		factionRepo,
		notify.Multi{},
		nil,
		"captures",
	)

	conf := &config.AppConfig{
		API: &config.APIConfig{
			BaseURL:       "localhost:8080",
			Environment:   "test",
			Port:          "8080",
			JWTSigningKey: "a-signing-key-for-tests",
		},
		Gin:      &config.GinConfig{Mode: "test"},
		Database: &config.DatabaseConfig{Driver: config.DriverSQLite},
		Reward:   &config.RewardConfig{},
	}

	s := api.NewServer(conf, api.Services{
		Auth:      authSvc,
		Users:     userSvc,
		Territory: territorySvc,
		Factions:  service.NewFactionService(factionRepo, userRepo),
		Feed:      feed,
	}, prometheus.NewRegistry())

	return testServer{t: t, server: s, auth: authSvc}
}

func (ts testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Router.ServeHTTP(rec, req)

	return rec
}

func (ts testServer) login(email string) string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp response.LoginResponse
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(ts.t, resp.Token)

	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[response.HealthResponse](t, rec).Status)
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/basepoints", "/api/v1/factions", "/api/v1/territory/status", "/api/v1/session"} {
		rec := ts.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"email":            "ann@example.com",
		"password":         password,
		"confirm_password": password,
		"name":             "Ann",
	}
	rec := ts.do(http.MethodPost, "/api/v1/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[domain.User](t, rec)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.Nil(t, user.FactionID)

	rec = ts.do(http.MethodPost, "/api/v1/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	body["password"] = "short"
	body["email"] = "bob@example.com"
	rec = ts.do(http.MethodPost, "/api/v1/auth/signup", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong-password-1!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTerritoryFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.auth.CreateAdmin(ctx, domain.User{Email: "admin@example.com", Password: password, Name: "Admin"})
	require.NoError(t, err)
	member, err := ts.auth.Signup(ctx, domain.User{Email: "ann@example.com", Password: password, Name: "Ann"})
	require.NoError(t, err)

	adminToken := ts.login("admin@example.com")
	memberToken := ts.login("ann@example.com")

	// Factions.
	rec := ts.do(http.MethodPost, "/api/v1/factions", memberToken, map[string]string{"name": "Red"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/factions", adminToken, map[string]string{"name": "Red"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	red := decode[domain.Faction](t, rec)
	assert.Zero(t, red.Balance)

	rec = ts.do(http.MethodPost, "/api/v1/factions", adminToken, map[string]string{"name": "Blue"})
	require.Equal(t, http.StatusCreated, rec.Code)
	blue := decode[domain.Faction](t, rec)

	rec = ts.do(http.MethodPost, "/api/v1/factions", adminToken, map[string]string{"name": "Red"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/factions/by-name/Blue", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, blue.ID, decode[domain.Faction](t, rec).ID)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/factions/%d/members", red.ID), adminToken, map[string]uint{"user_id": member.ID})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/factions/%d/members", red.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.User](t, rec), 1)

	// Basepoints.
	rec = ts.do(http.MethodPost, "/api/v1/basepoints", adminToken, map[string]string{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	alpha := decode[domain.ContestedPoint](t, rec)
	assert.True(t, alpha.IsActive)
	assert.Equal(t, "Admin#1", alpha.CreatedBy)

	rec = ts.do(http.MethodPost, "/api/v1/basepoints", adminToken, map[string]string{"name": "Alpha"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/basepoints", memberToken, map[string]string{"name": "Bravo"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/basepoints/by-name/Nope", memberToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Captures are gated on the session.
	capture := map[string]string{"point_name": "Alpha", "evidence_url": "https://example.com/a.png"}
	rec = ts.do(http.MethodPost, "/api/v1/captures", memberToken, capture)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/session/start", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/session/start", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.SessionState](t, rec).IsActive)

	rec = ts.do(http.MethodPost, "/api/v1/session/start", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/captures", memberToken, capture)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Red", decode[response.CaptureResponse](t, rec).Capture.FactionName)

	rec = ts.do(http.MethodPost, "/api/v1/captures", memberToken, map[string]string{
		"faction_name": "Blue", "point_name": "Alpha", "evidence_url": "https://example.com/b.png",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/captures", adminToken, map[string]string{
		"faction_name": "Blue", "point_name": "Alpha", "evidence_url": "https://example.com/b.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blueCapture := decode[response.CaptureResponse](t, rec).Capture

	rec = ts.do(http.MethodPost, "/api/v1/captures", adminToken, map[string]string{
		"faction_name": "Green", "point_name": "Alpha", "evidence_url": "https://example.com/g.png",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/captures", adminToken, map[string]string{"point_name": "Alpha", "evidence_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Views.
	rec = ts.do(http.MethodGet, "/api/v1/territory/status?recent=1", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[domain.TerritoryStatus](t, rec)
	assert.True(t, status.Session.IsActive)
	assert.Equal(t, []domain.FactionCount{{FactionName: "Blue", Points: 1}}, status.Counts)
	require.Len(t, status.RecentCaptures, 1)
	assert.Equal(t, blueCapture.ID, status.RecentCaptures[0].ID)

	rec = ts.do(http.MethodGet, "/api/v1/territory/summary", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[response.SummaryResponse](t, rec)
	require.Len(t, summary.Points, 1)
	assert.Equal(t, "Blue", summary.Points[0].CurrentHolder)

	// Removal.
	removePath := fmt.Sprintf("/api/v1/captures/%d", blueCapture.ID)
	rec = ts.do(http.MethodDelete, removePath, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = ts.do(http.MethodDelete, removePath, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodDelete, removePath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/captures/recent", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]domain.CaptureEvent](t, rec)
	require.Len(t, recent, 1)
	assert.Equal(t, "Red", recent[0].FactionName)

	// Deactivated points refuse captures.
	rec = ts.do(http.MethodDelete, fmt.Sprintf("/api/v1/basepoints/%d", alpha.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodPost, "/api/v1/captures", memberToken, capture)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/v1/basepoints/%d/reactivate", alpha.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodPost, "/api/v1/basepoints/9999/reactivate", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/session/stop", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPost, "/api/v1/session/stop", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTreasuryRoutes(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.auth.CreateAdmin(ctx, domain.User{Email: "admin@example.com", Password: password, Name: "Admin"})
	require.NoError(t, err)
	adminToken := ts.login("admin@example.com")

	rec := ts.do(http.MethodPost, "/api/v1/factions", adminToken, map[string]string{"name": "Red"})
	require.Equal(t, http.StatusCreated, rec.Code)
	red := decode[domain.Faction](t, rec)
	treasury := fmt.Sprintf("/api/v1/factions/%d/treasury", red.ID)

	rec = ts.do(http.MethodPost, treasury, adminToken, map[string]any{"amount": 5, "is_credit": false})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, treasury, adminToken, map[string]any{"amount": 10, "is_credit": true, "memo": "bonus"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, response.TreasuryResponse{FactionID: red.ID, Balance: 10}, decode[response.TreasuryResponse](t, rec))

	rec = ts.do(http.MethodPost, treasury, adminToken, map[string]any{"amount": 0, "is_credit": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/factions/9999/treasury", adminToken, map[string]any{"amount": 1, "is_credit": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, treasury, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	transactions := decode[[]domain.TreasuryTransaction](t, rec)
	require.Len(t, transactions, 1)
	assert.Equal(t, domain.TreasuryCredit, transactions[0].Type)
	assert.Equal(t, 10, transactions[0].BalanceAfter)
	assert.Equal(t, "Admin#1", transactions[0].Actor)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/factions/%d", red.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, decode[domain.Faction](t, rec).Balance)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodGet, "/", "", nil)

	rec := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "basepoint_http_requests_total")
}
