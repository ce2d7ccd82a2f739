package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/confettischool/backend/internal/controllers"
	"github.com/confettischool/backend/internal/dto"
	"github.com/confettischool/backend/internal/pipeline"
)

// ResourceHandler adapts one entity's CRUD pipelines to fiber. It owns the
// presentation side of the pipeline boundary: render terminals become JSON
// documents, redirect terminals become 303 responses, and failure kinds are
// mapped to HTTP statuses here, not in the core.
type ResourceHandler[T any] struct {
	resource *controllers.Resource[T]
	onError  pipeline.ErrorStage
}

func NewResourceHandler[T any](resource *controllers.Resource[T], logger *slog.Logger) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		resource: resource,
		onError:  controllers.ReportError(logger),
	}
}

func (h *ResourceHandler[T]) Index(c *fiber.Ctx) error {
	return h.run(c, "index", h.resource.Index())
}

func (h *ResourceHandler[T]) Show(c *fiber.Ctx) error {
	return h.run(c, "show", h.resource.Show())
}

func (h *ResourceHandler[T]) New(c *fiber.Ctx) error {
	return h.run(c, "new", h.resource.New())
}

func (h *ResourceHandler[T]) Create(c *fiber.Ctx) error {
	return h.run(c, "create", h.resource.Create())
}

func (h *ResourceHandler[T]) Edit(c *fiber.Ctx) error {
	return h.run(c, "edit", h.resource.Edit())
}

func (h *ResourceHandler[T]) Update(c *fiber.Ctx) error {
	return h.run(c, "update", h.resource.Update())
}

func (h *ResourceHandler[T]) Delete(c *fiber.Ctx) error {
	return h.run(c, "delete", h.resource.Delete())
}

func (h *ResourceHandler[T]) run(c *fiber.Ctx, action string, stages []pipeline.Stage) error {
	ex := pipeline.NewExchange(h.resource.Entity(), action, c.Params("id"), payload(c))
	pipeline.Run(c.UserContext(), ex, h.onError, stages...)
	return respond(c, ex)
}

func respond(c *fiber.Ctx, ex *pipeline.Exchange) error {
	terminal := ex.Terminal()
	if terminal == nil {
		// Every composed pipeline ends in a render or redirect; reaching this
		// means a stage chain was miswired.
		return c.SendStatus(fiber.StatusNoContent)
	}
	switch terminal.Kind {
	case pipeline.TerminalRender:
		return c.JSON(fiber.Map{"view": terminal.View, "data": terminal.Data})
	case pipeline.TerminalRedirect:
		return c.Redirect(terminal.Path, fiber.StatusSeeOther)
	default:
		return failResponse(c, terminal)
	}
}

func failResponse(c *fiber.Ctx, terminal *pipeline.Terminal) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	switch terminal.FailKind {
	case pipeline.FailNotFound:
		status = fiber.StatusNotFound
		message = "Record not found"
	case pipeline.FailValidation:
		status = fiber.StatusUnprocessableEntity
		message = terminal.Err.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// payload flattens the request body into the loosely typed field map the
// shaping functions consume. JSON objects nest one level with dotted keys
// (name.first); form bodies are taken as-is.
func payload(c *fiber.Ctx) map[string]string {
	input := map[string]string{}
	body := c.Body()
	if len(body) == 0 {
		return input
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		flatten("", raw, input)
		return input
	}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		input[string(k)] = string(v)
	})
	return input
}

func flatten(prefix string, raw map[string]any, out map[string]string) {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			// absent, not empty
		case string:
			out[key] = val
		case float64:
			out[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(val)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
