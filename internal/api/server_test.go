package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/instagram"
	mock_instagram "github.com/orgball2608/insta-viewer/internal/instagram/mocks"
	mock_lookup "github.com/orgball2608/insta-viewer/internal/lookup/mocks"
	"github.com/orgball2608/insta-viewer/internal/ratelimit"
	"github.com/orgball2608/insta-viewer/pkg/config"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fixture struct {
	server  *Server
	ig      *mock_instagram.MockClient
	images  *mock_instagram.MockImageFetcher
	lookups *mock_lookup.MockClient
}

func newFixture(t *testing.T, limiter ratelimit.Limiter) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.CorsOrigins = "*"

	f := &fixture{
		ig:      mock_instagram.NewMockClient(ctrl),
		images:  mock_instagram.NewMockImageFetcher(ctrl),
		lookups: mock_lookup.NewMockClient(ctrl),
	}
	f.server = New(Opts{
		Config:    cfg,
		Logger:    logger.Nop(),
		Instagram: f.ig,
		Images:    f.images,
		Lookups:   f.lookups,
		Limiter:   limiter,
	})
	return f
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	f.server.Routes().ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not an error object: %q", rec.Body.String())
	}
	return body.Error
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get("/healthz")

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestProfile_ReturnsUpstreamBodyVerbatim(t *testing.T) {
	f := newFixture(t, nil)
	upstream := `{"data":{"user":{"id":"123","username":"abc.def_1"}},"status":"ok"}`

	f.ig.EXPECT().ProfileInfo(gomock.Any(), "abc.def_1").Return(json.RawMessage(upstream), nil)
	f.lookups.EXPECT().Record(gomock.Any(), "abc.def_1", "123", true).Return(nil)

	rec := f.get("/api/profile/abc.def_1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != upstream {
		t.Errorf("expected verbatim body, got %q", rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestProfile_AliasRoute(t *testing.T) {
	f := newFixture(t, nil)
	f.ig.EXPECT().ProfileInfo(gomock.Any(), "someone").Return(json.RawMessage(`{}`), nil)
	f.lookups.EXPECT().Record(gomock.Any(), "someone", "", true).Return(nil)

	if rec := f.get("/api/instagram-profile/someone"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProfile_UpstreamFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.ig.EXPECT().ProfileInfo(gomock.Any(), "someone").Return(nil, errors.New("status 401"))
	f.lookups.EXPECT().Record(gomock.Any(), "someone", "", false).Return(nil)

	rec := f.get("/api/profile/someone")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Failed to fetch Instagram profile" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestProfile_InvalidUsernameMakesNoUpstreamCall(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get("/api/profile/bad%20user!")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Invalid username" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestProfile_LookupFailureDoesNotChangeResponse(t *testing.T) {
	f := newFixture(t, nil)
	f.ig.EXPECT().ProfileInfo(gomock.Any(), "someone").Return(json.RawMessage(`{"ok":true}`), nil)
	f.lookups.EXPECT().Record(gomock.Any(), "someone", "", true).Return(errors.New("db down"))

	rec := f.get("/api/profile/someone")

	if rec.Code != http.StatusOK || rec.Body.String() != `{"ok":true}` {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMedia_ForwardsVariables(t *testing.T) {
	f := newFixture(t, nil)
	want := instagram.MediaVariables{ID: "123", After: "QVFD", First: 12}
	f.ig.EXPECT().TimelineMedia(gomock.Any(), want).Return(json.RawMessage(`{"data":{}}`), nil)

	rec := f.get(`/api/media?variables=` + urlEscape(`{"id":"123","after":"QVFD","first":12}`))

	if rec.Code != http.StatusOK || rec.Body.String() != `{"data":{}}` {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMedia_MalformedVariables(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(`/api/instagram-media?variables=` + urlEscape(`{not json`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Failed to fetch Instagram media" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestMedia_UpstreamFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.ig.EXPECT().TimelineMedia(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	rec := f.get(`/api/media?variables=` + urlEscape(`{"id":"123","first":12}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestProxyImage_MissingURL(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get("/api/proxy-image")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Image URL is required" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestProxyImage_StreamsWithCacheHeaders(t *testing.T) {
	f := newFixture(t, nil)
	src := "https://cdn.example.com/p.jpg?x=1"
	f.images.EXPECT().FetchImage(gomock.Any(), src).Return(&instagram.Image{
		ContentType:   "image/jpeg",
		ContentLength: 4,
		Body:          io.NopCloser(strings.NewReader("JPEG")),
	}, nil)

	rec := f.get("/api/proxy-image?url=" + urlEscape(src))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("expected upstream content type, got %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000" {
		t.Errorf("unexpected cache control %q", got)
	}
	if rec.Body.String() != "JPEG" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestProxyImage_FetchFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.images.EXPECT().FetchImage(gomock.Any(), "https://cdn.example.com/gone.jpg").Return(nil, errors.New("404"))

	rec := f.get("/api/proxy-image?url=" + urlEscape("https://cdn.example.com/gone.jpg"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Failed to proxy image" {
		t.Errorf("unexpected error message %q", got)
	}
}

func TestLookups_ListsRecent(t *testing.T) {
	f := newFixture(t, nil)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.lookups.EXPECT().Recent(gomock.Any(), 5).Return([]domain.Lookup{
		{ID: 2, Username: "abc", UserID: "123", Success: true, CreatedAt: at},
	}, nil)

	rec := f.get("/api/lookups?limit=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.Lookup
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0].Username != "abc" || !got[0].CreatedAt.Equal(at) {
		t.Errorf("unexpected lookups %+v", got)
	}
}

func TestLookups_BadLimit(t *testing.T) {
	f := newFixture(t, nil)

	if rec := f.get("/api/lookups?limit=lots"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/media", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestAllowedOrigin(t *testing.T) {
	allowed := []string{"http://localhost:5173", "https://viewer.example.com"}

	if got := allowedOrigin(allowed, "https://viewer.example.com"); got != "https://viewer.example.com" {
		t.Errorf("expected listed origin to be echoed, got %q", got)
	}
	if got := allowedOrigin(allowed, "https://evil.example.com"); got != "" {
		t.Errorf("expected unlisted origin to be refused, got %q", got)
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	f := newFixture(t, ratelimit.NewInMemoryLimiter(1, time.Hour, 1))
	handler := f.server.Routes()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if got := errorBody(t, second); got != "Too many requests" {
		t.Errorf("unexpected error message %q", got)
	}
}
