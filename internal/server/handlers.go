package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/landmark"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/session"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

type handler struct {
	planner Planner
	history History
	log     *slog.Logger
}

type landmarkRequest struct {
	Name     string            `json:"name"`
	Position *geometry.Vector3 `json:"position"`
	Snap     bool              `json:"snap"`
}

type saveRequest struct {
	Name string `json:"name"`
}

func (h *handler) live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (h *handler) ready(c fiber.Ctx) error {
	if _, err := h.planner.Snapshot(c.Context()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

func (h *handler) snapshot(c fiber.Ctx) error {
	snap, err := h.planner.Snapshot(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snap)
}

// command returns a handler that dispatches a fixed command
func (h *handler) command(cmd plan.Command) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.dispatch(c, cmd)
	}
}

func (h *handler) placeLandmark(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req landmarkRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Position == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "position required"})
	}

	name, err := landmark.ParseName(req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return h.dispatch(c, plan.PlaceLandmark{Name: name, Position: *req.Position, Snap: req.Snap})
}

func (h *handler) togglePlane(c fiber.Ctx) error {
	role, err := plan.ParseRole(c.Params("role"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.dispatch(c, plan.TogglePlane{Role: role})
}

func (h *handler) adjust(delta float64) fiber.Handler {
	return func(c fiber.Ctx) error {
		ch, err := plan.ParseChannel(c.Params("channel"))
		if err != nil {
			return h.fail(c, err)
		}
		return h.dispatch(c, plan.Adjust{Channel: ch, Delta: delta})
	}
}

func (h *handler) listPlans(c fiber.Ctx) error {
	plans, err := h.history.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	if plans == nil {
		plans = []store.Plan{}
	}
	return c.JSON(plans)
}

func (h *handler) savePlan(c fiber.Ctx) error {
	var req saveRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	snap, err := h.planner.Snapshot(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	saved, err := h.history.Save(c.Context(), req.Name, snap)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("plan saved", "id", saved.ID, "name", saved.Name)
	return c.Status(http.StatusCreated).JSON(saved)
}

func (h *handler) getPlan(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid plan id"})
	}
	p, err := h.history.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *handler) dispatch(c fiber.Ctx, cmd plan.Command) error {
	snap, err := h.planner.Do(c.Context(), cmd)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snap)
}

func (h *handler) fail(c fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, landmark.ErrUnknownName),
		errors.Is(err, plan.ErrUnknownChannel),
		errors.Is(err, plan.ErrUnknownRole):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, plan.ErrMissingDependency):
		return http.StatusConflict
	case errors.Is(err, plan.ErrDegenerate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
