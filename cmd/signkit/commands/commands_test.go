package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/preset"
)

const artSVG = `<svg viewBox="0 0 200 100">
	<rect x="10" y="10" width="80" height="80" data-char="O"/>
	<rect x="110" y="10" width="80" height="80" data-char="K"/>
</svg>`

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPrepareCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.svg")
	if err := os.WriteFile(path, []byte(artSVG), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, src := range []struct{ arg, stdin string }{{path, ""}, {"-", artSVG}} {
		out, err := run(t, src.stdin, "prepare", src.arg, "--height", "300", "--lighting", "halo")
		if err != nil {
			t.Fatalf("prepare %s error = %v", src.arg, err)
		}
		var b signkit.Bundle
		if err := json.Unmarshal([]byte(out), &b); err != nil {
			t.Fatalf("decode bundle: %v\n%s", err, out)
		}
		if len(b.Components) != 2 || b.Lighting != signkit.LightingHalo || b.ID == "" {
			t.Errorf("prepare %s = %d components, lighting %q, id %q", src.arg, len(b.Components), b.Lighting, b.ID)
		}
	}

	if _, err := run(t, "", "prepare", filepath.Join(t.TempDir(), "missing.svg"), "--height", "100"); err == nil {
		t.Error("prepare missing file error = nil")
	}
	if _, err := run(t, "", "prepare", path, "--height", "100", "--profile", "wavy"); !errors.Is(err, signkit.ErrUnknownProfile) {
		t.Errorf("prepare bad profile error = %v", err)
	}
}

func TestTextCmd(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "bundle.json")
	out, err := run(t, "", "text", "GO", "--height", "200", "--spacing", "10", "-o", outFile)
	if err != nil {
		t.Fatalf("text error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty with -o", out)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	var b signkit.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if len(b.Components) != 2 || b.Components[0].Label != "G" {
		t.Errorf("text bundle = %d components", len(b.Components))
	}

	if _, err := run(t, "", "text", "GO"); err == nil {
		t.Error("text without --height error = nil")
	}
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "", "validate", "--height", "20", "--width", "20")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	var res struct {
		Report signkit.ValidationReport  `json:"report"`
		Fixed  signkit.ValidationRequest `json:"fixed"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Report.IsValid || res.Fixed.Height != signkit.DefaultLimits().MinHeight {
		t.Errorf("validate = valid %v, fixed height %v", res.Report.IsValid, res.Fixed.Height)
	}
	if res.Fixed.TotalWidth != 20 {
		t.Errorf("TotalWidth = %v, want --width", res.Fixed.TotalWidth)
	}

	if _, err := run(t, "", "validate", "--height", "20", "--width", "20", "--strict"); !errors.Is(err, errInvalidSign) {
		t.Errorf("validate --strict error = %v, want errInvalidSign", err)
	}
	if _, err := run(t, "", "validate", "--height", "200", "--width", "100", "--strict"); err != nil {
		t.Errorf("validate --strict on a valid sign error = %v", err)
	}
}

func TestSegmentAndRulesCmd(t *testing.T) {
	out, err := run(t, "", "segment", "--width", "1000", "--height", "200", "--overlap", "0")
	if err != nil {
		t.Fatalf("segment error = %v", err)
	}
	var plan signkit.SegmentPlan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Cols != 3 || plan.Rows != 1 || plan.Overlap != 0 {
		t.Errorf("plan = %d x %d, overlap %v", plan.Rows, plan.Cols, plan.Overlap)
	}

	out, err = run(t, "", "rules", "channel_front")
	if err != nil {
		t.Fatalf("rules error = %v", err)
	}
	var r signkit.LightingRule
	if err := json.Unmarshal([]byte(out), &r); err != nil || r.LightingType != signkit.LightingChannelFront {
		t.Errorf("rules channel_front = %q, %v", r.LightingType, err)
	}

	out, err = run(t, "", "rules")
	if err != nil {
		t.Fatalf("rules error = %v", err)
	}
	var all []signkit.LightingRule
	if err := json.Unmarshal([]byte(out), &all); err != nil || len(all) != len(signkit.LightingTypes) {
		t.Errorf("rules = %d entries, %v", len(all), err)
	}
	if _, err := run(t, "", "rules", "neon"); !errors.Is(err, signkit.ErrUnknownLighting) {
		t.Errorf("rules neon error = %v", err)
	}
}

func TestPresetCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "presets.db")
	overrides := filepath.Join(t.TempDir(), "narrow.json")
	if err := os.WriteFile(overrides, []byte(`{"rule":{"max_single_piece":120}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "preset", "save", "narrow", "--lighting", "front", "--from", overrides, "--preset-db", db)
	if err != nil {
		t.Fatalf("preset save error = %v", err)
	}
	var p preset.Preset
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode preset: %v", err)
	}
	if p.Name != "narrow" || p.Lighting != signkit.LightingFront || p.Rule.MaxSinglePiece != 120 {
		t.Errorf("saved = %q %q %v", p.Name, p.Lighting, p.Rule.MaxSinglePiece)
	}

	if _, err := run(t, "", "preset", "get", "narrow", "--preset-db", db); err != nil {
		t.Errorf("preset get error = %v", err)
	}
	out, err = run(t, "", "preset", "list", "--preset-db", db)
	if err != nil || !strings.Contains(out, `"narrow"`) {
		t.Errorf("preset list = %q, %v", out, err)
	}

	out, err = run(t, "", "segment", "--width", "300", "--height", "100", "--lighting", "front",
		"--preset", "narrow", "--preset-db", db)
	if err != nil {
		t.Fatalf("segment with preset error = %v", err)
	}
	var plan signkit.SegmentPlan
	if err := json.Unmarshal([]byte(out), &plan); err != nil || plan.MaxSize != 120 {
		t.Errorf("segment with preset max = %v, %v", plan.MaxSize, err)
	}

	out, err = run(t, "", "preset", "delete", "narrow", "--preset-db", db)
	if err != nil || !strings.Contains(out, "deleted narrow") {
		t.Errorf("preset delete = %q, %v", out, err)
	}
	if _, err := run(t, "", "preset", "get", "narrow", "--preset-db", db); !errors.Is(err, preset.ErrNotFound) {
		t.Errorf("preset get deleted error = %v, want ErrNotFound", err)
	}
}
