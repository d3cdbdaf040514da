package server

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/service"
	"github.com/gogpu/signkit/preset"
	"github.com/gogpu/signkit/svg"
	"github.com/gogpu/signkit/text"
)

type handlers struct {
	svc *service.Service
}

// prepareRequest is the JSON form of POST /prepare. Exactly one of SVG
// and Text must be set.
type prepareRequest struct {
	signkit.Request
	service.TextInput

	SVG    string `json:"svg,omitempty"`
	Preset string `json:"preset,omitempty"`
}

type validateRequest struct {
	signkit.ValidationRequest
	Preset string `json:"preset,omitempty"`
}

type validateResponse struct {
	Report signkit.ValidationReport  `json:"report"`
	Fixed  signkit.ValidationRequest `json:"fixed"`
}

type segmentRequest struct {
	service.SegmentInput
	Preset string `json:"preset,omitempty"`
}

// ready reports whether the preset database is reachable.
func (h *handlers) ready(c fiber.Ctx) error {
	if store := h.svc.Presets(); store != nil {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// prepare converts an SVG document or a line of text. An SVG body is
// accepted directly with its parameters in the query string; otherwise
// the body is a prepareRequest.
func (h *handlers) prepare(c fiber.Ctx) error {
	if isSVGBody(c.Get(fiber.HeaderContentType)) {
		req, presetName, err := requestFromQuery(c)
		if err != nil {
			return fail(c, err)
		}
		b, err := h.svc.PrepareSVG(c.Context(), bytes.NewReader(c.Body()), req, presetName)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(b)
	}

	var req prepareRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	var (
		b   *signkit.Bundle
		err error
	)
	switch {
	case req.SVG != "" && req.Text != "":
		return fail(c, fmt.Errorf("%w: svg and text are exclusive", signkit.ErrInvalidRequest))
	case req.SVG != "":
		b, err = h.svc.PrepareSVG(c.Context(), strings.NewReader(req.SVG), req.Request, req.Preset)
	case req.Text != "":
		b, err = h.svc.PrepareText(c.Context(), req.TextInput, req.Request, req.Preset)
	default:
		return fail(c, fmt.Errorf("%w: svg or text required", signkit.ErrInvalidRequest))
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(b)
}

func (h *handlers) validate(c fiber.Ctx) error {
	var req validateRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	report, err := h.svc.Validate(c.Context(), req.ValidationRequest, req.Preset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(validateResponse{Report: report, Fixed: report.ApplyFixes(req.ValidationRequest)})
}

func (h *handlers) segment(c fiber.Ctx) error {
	var req segmentRequest
	if err := decode(c, &req); err != nil {
		return fail(c, err)
	}
	plan, err := h.svc.Segment(c.Context(), req.SegmentInput, req.Preset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

// rules lists the rule of every lighting type.
func (h *handlers) rules(c fiber.Ctx) error {
	out := make([]signkit.LightingRule, 0, len(signkit.LightingTypes))
	for _, lt := range signkit.LightingTypes {
		r, err := h.svc.Rule(c.Context(), string(lt), c.Query("preset"))
		if err != nil {
			return fail(c, err)
		}
		out = append(out, r)
	}
	return c.JSON(out)
}

func (h *handlers) rule(c fiber.Ctx) error {
	r, err := h.svc.Rule(c.Context(), c.Params("lighting"), c.Query("preset"))
	if errors.Is(err, signkit.ErrUnknownLighting) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(r)
}

func (h *handlers) materials(c fiber.Ctx) error {
	keys := signkit.MaterialKeys()
	out := make([]signkit.Material, 0, len(keys))
	for _, k := range keys {
		out = append(out, signkit.Materials[k])
	}
	return c.JSON(out)
}

func (h *handlers) ledModules(c fiber.Ctx) error {
	out := make([]signkit.LEDModule, 0, len(signkit.LEDModules))
	for _, m := range signkit.LEDModules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return c.JSON(out)
}

func (h *handlers) listPresets(c fiber.Ctx) error {
	store := h.svc.Presets()
	if store == nil {
		return fail(c, service.ErrPresetsDisabled)
	}
	list, err := store.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *handlers) getPreset(c fiber.Ctx) error {
	store := h.svc.Presets()
	if store == nil {
		return fail(c, service.ErrPresetsDisabled)
	}
	p, err := store.Get(c.Context(), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

// savePreset creates or replaces the preset named in the path. Fields
// missing from the body keep the defaults of the preset's lighting type.
func (h *handlers) savePreset(c fiber.Ctx) error {
	store := h.svc.Presets()
	if store == nil {
		return fail(c, service.ErrPresetsDisabled)
	}
	var head struct {
		Lighting signkit.LightingType `json:"lighting"`
	}
	if err := decode(c, &head); err != nil {
		return fail(c, err)
	}
	lt, err := signkit.ParseLightingType(string(head.Lighting))
	if err != nil {
		return fail(c, err)
	}
	p := preset.FromDefaults(c.Params("name"), lt)
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return fail(c, fmt.Errorf("%w: %v", signkit.ErrInvalidRequest, err))
	}
	p.Name, p.Lighting = c.Params("name"), lt

	saved, err := store.Save(c.Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(saved)
}

func (h *handlers) deletePreset(c fiber.Ctx) error {
	store := h.svc.Presets()
	if store == nil {
		return fail(c, service.ErrPresetsDisabled)
	}
	if err := store.Delete(c.Context(), c.Params("name")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func isSVGBody(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "image/svg+xml") ||
		strings.HasPrefix(ct, "application/xml") ||
		strings.HasPrefix(ct, "text/xml")
}

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return fmt.Errorf("%w: empty body", signkit.ErrInvalidRequest)
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", signkit.ErrInvalidRequest, err)
	}
	return nil
}

// requestFromQuery reads conversion parameters from the query string.
func requestFromQuery(c fiber.Ctx) (signkit.Request, string, error) {
	req := signkit.Request{
		Profile:  signkit.ProfileKind(c.Query("profile")),
		Lighting: signkit.LightingType(c.Query("lighting")),
		Material: c.Query("material"),
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"height", &req.Height}, {"depth", &req.Depth}} {
		v := c.Query(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, "", fmt.Errorf("%w: %s=%q", signkit.ErrInvalidRequest, f.name, v)
		}
		*f.dst = n
	}
	if v := c.Query("exterior"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, "", fmt.Errorf("%w: exterior=%q", signkit.ErrInvalidRequest, v)
		}
		req.Exterior = b
	}
	return req, c.Query("preset"), nil
}

// statusOf maps pipeline errors to HTTP status codes.
func statusOf(err error) int {
	var (
		syntax *xml.SyntaxError
		font   *text.FontError
	)
	switch {
	case errors.Is(err, preset.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrPresetsDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, text.ErrFontNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, signkit.ErrNoGeometry), errors.As(err, &font):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, signkit.ErrInvalidRequest),
		errors.Is(err, signkit.ErrUnknownLighting),
		errors.Is(err, signkit.ErrUnknownProfile),
		errors.Is(err, signkit.ErrInvalidSegmentation),
		errors.Is(err, svg.ErrNotSVG),
		errors.Is(err, text.ErrInvalidHeight),
		errors.Is(err, text.ErrNoGlyphs),
		errors.Is(err, preset.ErrInvalidName),
		errors.As(err, &syntax):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		signkit.Logger().Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
