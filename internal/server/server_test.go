package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/config"
	"github.com/gogpu/signkit/internal/service"
	"github.com/gogpu/signkit/preset"
	"github.com/gogpu/signkit/text"
)

const twoLetters = `<svg viewBox="0 0 200 100">
	<rect id="bg" x="0" y="0" width="200" height="100" fill="#fff"/>
	<rect x="10" y="10" width="80" height="80" data-char="A"/>
	<rect x="110" y="10" width="80" height="80" data-char="B"/>
</svg>`

func testConfig() *config.Config {
	return &config.Config{Port: "0", Environment: "test", ReadTimeout: 5, WriteTimeout: 5, BodyLimit: 8}
}

func newTestServer(t *testing.T, withPresets bool) *Server {
	t.Helper()
	var opts []service.Option
	if withPresets {
		store, err := preset.Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("preset.Open() error = %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		opts = append(opts, service.WithPresets(store))
	}
	svc := service.New(opts...)
	t.Cleanup(svc.Close)
	return New(testConfig(), svc, WithRequestLog(false))
}

func do(t *testing.T, s *Server, method, target, contentType, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.App().Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	for _, path := range []string{"/health/live", "/health/ready"} {
		if code, body := do(t, s, http.MethodGet, path, "", ""); code != http.StatusOK {
			t.Errorf("GET %s = %d %s", path, code, body)
		}
	}
}

func TestPrepare_SVGBody(t *testing.T) {
	s := newTestServer(t, false)

	code, body := do(t, s, http.MethodPost, "/prepare?height=200&depth=40&lighting=front", "image/svg+xml", twoLetters)
	if code != http.StatusOK {
		t.Fatalf("POST /prepare = %d %s", code, body)
	}
	b := decodeJSON[signkit.Bundle](t, body)
	if b.ID == "" {
		t.Error("bundle has no id")
	}
	if len(b.Components) != 2 {
		t.Errorf("len(Components) = %d, want 2", len(b.Components))
	}
	if b.Lighting != signkit.LightingFront {
		t.Errorf("Lighting = %q, want front", b.Lighting)
	}
	if len(b.Removed) != 1 {
		t.Errorf("Removed = %+v, want the background", b.Removed)
	}
}

func TestPrepare_JSON(t *testing.T) {
	s := newTestServer(t, false)

	code, body := do(t, s, http.MethodPost, "/prepare", fiber.MIMEApplicationJSON,
		`{"text":"HI","height":120,"depth":40,"profile":"rounded"}`)
	if code != http.StatusOK {
		t.Fatalf("POST /prepare text = %d %s", code, body)
	}
	b := decodeJSON[signkit.Bundle](t, body)
	if len(b.Components) != 2 || b.Profile.Kind != signkit.ProfileRounded {
		t.Errorf("bundle = %d components, profile %q", len(b.Components), b.Profile.Kind)
	}

	svgJSON, _ := json.Marshal(map[string]any{"svg": twoLetters, "height": 100})
	if code, body := do(t, s, http.MethodPost, "/prepare", fiber.MIMEApplicationJSON, string(svgJSON)); code != http.StatusOK {
		t.Errorf("POST /prepare svg json = %d %s", code, body)
	}
}

func TestPrepare_Errors(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		want        int
	}{
		{"empty body", "/prepare", fiber.MIMEApplicationJSON, "", http.StatusBadRequest},
		{"bad json", "/prepare", fiber.MIMEApplicationJSON, "{", http.StatusBadRequest},
		{"neither input", "/prepare", fiber.MIMEApplicationJSON, `{"height":100}`, http.StatusBadRequest},
		{"both inputs", "/prepare", fiber.MIMEApplicationJSON, `{"svg":"<svg/>","text":"A","height":100}`, http.StatusBadRequest},
		{"not svg", "/prepare?height=100", "image/svg+xml", "<html/>", http.StatusBadRequest},
		{"bad height", "/prepare?height=tall", "image/svg+xml", twoLetters, http.StatusBadRequest},
		{"unknown lighting", "/prepare?height=100&lighting=neon", "image/svg+xml", twoLetters, http.StatusBadRequest},
		{"no geometry", "/prepare?height=100", "image/svg+xml", `<svg viewBox="0 0 10 10"></svg>`, http.StatusUnprocessableEntity},
		{"preset without store", "/prepare?height=100&preset=x", "image/svg+xml", twoLetters, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, tt.target, tt.contentType, tt.body)
			if code != tt.want {
				t.Errorf("POST %s = %d %s, want %d", tt.target, code, body, tt.want)
			}
			if e := decodeJSON[map[string]string](t, body); e["error"] == "" {
				t.Errorf("error body = %s", body)
			}
		})
	}
}

func TestPrepare_FontSources(t *testing.T) {
	fonts := t.TempDir()
	if err := os.WriteFile(filepath.Join(fonts, "go.ttf"), goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(t.TempDir(), "secret.ttf")
	if err := os.WriteFile(secret, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	svc := service.New(service.WithFontLoader(text.RestrictedLoader(nil, fonts, nil)))
	t.Cleanup(svc.Close)
	s := New(testConfig(), svc, WithRequestLog(false))

	tests := []struct {
		name string
		font string
		want int
	}{
		{"builtin", "", http.StatusOK},
		{"font directory", "go.ttf", http.StatusOK},
		{"absolute path", secret, http.StatusForbidden},
		{"system file", "/etc/passwd", http.StatusForbidden},
		{"parent escape", "../" + filepath.Base(secret), http.StatusForbidden},
		{"file url", "file://" + secret, http.StatusForbidden},
		{"metadata host", "http://169.254.169.254/latest/meta-data/", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]any{"text": "A", "font": tt.font, "height": 100})
			code, resp := do(t, s, http.MethodPost, "/prepare", fiber.MIMEApplicationJSON, string(body))
			if code != tt.want {
				t.Errorf("POST /prepare font %q = %d %s, want %d", tt.font, code, resp, tt.want)
			}
		})
	}
}

func TestPrepare_DefaultServiceRejectsFiles(t *testing.T) {
	s := newTestServer(t, false)
	code, body := do(t, s, http.MethodPost, "/prepare", fiber.MIMEApplicationJSON,
		`{"text":"A","font":"/etc/passwd","height":100}`)
	if code != http.StatusForbidden {
		t.Errorf("POST /prepare = %d %s, want 403", code, body)
	}
}

func TestValidateAndSegment(t *testing.T) {
	s := newTestServer(t, false)

	code, body := do(t, s, http.MethodPost, "/validate", fiber.MIMEApplicationJSON,
		`{"height":10,"width":10,"total_width":10,"depth":40,"letter_count":1}`)
	if code != http.StatusOK {
		t.Fatalf("POST /validate = %d %s", code, body)
	}
	v := decodeJSON[validateResponse](t, body)
	if v.Report.IsValid {
		t.Error("10 mm letter reported valid")
	}
	if v.Fixed.Height != signkit.DefaultLimits().MinHeight {
		t.Errorf("Fixed.Height = %v, want the minimum height", v.Fixed.Height)
	}

	code, body = do(t, s, http.MethodPost, "/segment", fiber.MIMEApplicationJSON,
		`{"width":900,"height":300,"lighting":"front"}`)
	if code != http.StatusOK {
		t.Fatalf("POST /segment = %d %s", code, body)
	}
	plan := decodeJSON[signkit.SegmentPlan](t, body)
	if !plan.NeedsSegmentation || plan.Cols < 3 || len(plan.Segments) != plan.Rows*plan.Cols {
		t.Errorf("plan = %d x %d, %d segments", plan.Rows, plan.Cols, len(plan.Segments))
	}

	if code, _ := do(t, s, http.MethodPost, "/segment", fiber.MIMEApplicationJSON, `{"width":-5,"height":1}`); code != http.StatusBadRequest {
		t.Errorf("POST /segment negative = %d, want 400", code)
	}
}

func TestReferenceTables(t *testing.T) {
	s := newTestServer(t, false)

	code, body := do(t, s, http.MethodGet, "/rules/halo", "", "")
	if code != http.StatusOK {
		t.Fatalf("GET /rules/halo = %d", code)
	}
	if r := decodeJSON[signkit.LightingRule](t, body); r.LightingType != signkit.LightingHalo {
		t.Errorf("rule lighting = %q, want halo", r.LightingType)
	}
	if code, _ := do(t, s, http.MethodGet, "/rules/neon", "", ""); code != http.StatusNotFound {
		t.Errorf("GET /rules/neon = %d, want 404", code)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/rules", len(signkit.LightingTypes)},
		{"/materials", len(signkit.Materials)},
		{"/led-modules", len(signkit.LEDModules)},
	}
	for _, tt := range tests {
		code, body := do(t, s, http.MethodGet, tt.path, "", "")
		if code != http.StatusOK {
			t.Errorf("GET %s = %d", tt.path, code)
			continue
		}
		if n := len(decodeJSON[[]json.RawMessage](t, body)); n != tt.want {
			t.Errorf("GET %s returned %d entries, want %d", tt.path, n, tt.want)
		}
	}
}

func TestPresets(t *testing.T) {
	s := newTestServer(t, true)

	code, body := do(t, s, http.MethodPut, "/presets/narrow", fiber.MIMEApplicationJSON,
		`{"lighting":"front","rule":{"max_single_piece":150}}`)
	if code != http.StatusOK {
		t.Fatalf("PUT /presets/narrow = %d %s", code, body)
	}
	p := decodeJSON[preset.Preset](t, body)
	front := signkit.DefaultRules().RuleFor(signkit.LightingFront)
	if p.Rule.MaxSinglePiece != 150 || p.Rule.WallThickness != front.WallThickness {
		t.Errorf("saved rule = max %v, wall %v", p.Rule.MaxSinglePiece, p.Rule.WallThickness)
	}
	if p.Limits != signkit.DefaultLimits() {
		t.Errorf("saved limits = %+v, want defaults", p.Limits)
	}

	if code, body := do(t, s, http.MethodGet, "/presets/narrow", "", ""); code != http.StatusOK {
		t.Errorf("GET /presets/narrow = %d %s", code, body)
	}
	code, body = do(t, s, http.MethodGet, "/presets", "", "")
	if code != http.StatusOK || len(decodeJSON[[]preset.Preset](t, body)) != 1 {
		t.Errorf("GET /presets = %d %s", code, body)
	}

	code, body = do(t, s, http.MethodPost, "/segment", fiber.MIMEApplicationJSON,
		`{"width":300,"height":100,"lighting":"front","preset":"narrow"}`)
	if code != http.StatusOK {
		t.Fatalf("POST /segment with preset = %d %s", code, body)
	}
	if plan := decodeJSON[signkit.SegmentPlan](t, body); plan.MaxSize != 150 || !plan.NeedsSegmentation {
		t.Errorf("plan max %v, segmented %v", plan.MaxSize, plan.NeedsSegmentation)
	}

	if code, _ := do(t, s, http.MethodPut, "/presets/bad", fiber.MIMEApplicationJSON, `{"lighting":"neon"}`); code != http.StatusBadRequest {
		t.Errorf("PUT unknown lighting = %d, want 400", code)
	}
	if code, _ := do(t, s, http.MethodDelete, "/presets/narrow", "", ""); code != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", code)
	}
	if code, _ := do(t, s, http.MethodGet, "/presets/narrow", "", ""); code != http.StatusNotFound {
		t.Errorf("GET deleted = %d, want 404", code)
	}
}

func TestPresets_Disabled(t *testing.T) {
	s := newTestServer(t, false)
	if code, _ := do(t, s, http.MethodGet, "/presets", "", ""); code != http.StatusServiceUnavailable {
		t.Errorf("GET /presets = %d, want 503", code)
	}
}
