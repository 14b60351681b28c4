package controllers

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a client error with a fixed status.
type requestError struct {
	status  int
	message string
	field   string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{status: fiber.StatusBadRequest, message: message}
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// bindBody parses the JSON body into out and runs struct validation.
func bindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &requestError{
				status:  fiber.StatusBadRequest,
				message: fe.Field() + " failed on the '" + fe.Tag() + "' rule",
				field:   fe.Field(),
			}
		}
		return badRequest(err.Error())
	}
	return nil
}

// respondError writes the JSON error body for err.
func respondError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body := fiber.Map{"error": reqErr.message}
		if reqErr.field != "" {
			body["field"] = reqErr.field
		}
		return c.Status(reqErr.status).JSON(body)
	}

	var habitErr *engine.InvalidHabitDataError
	if errors.As(err, &habitErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": habitErr.Error(),
			"field": habitErr.Field,
		})
	}

	switch {
	case errors.Is(err, engine.ErrInvalidDate), errors.Is(err, engine.ErrInvalidRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, queries.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, queries.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	case errors.Is(err, queries.ErrStatsConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Stats changed concurrently, try again"})
	case errors.Is(err, engine.ErrComputation):
		logger.Error("computation failed", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal computation error"})
	}

	logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

func appLocation() *time.Location {
	if config.Cfg == nil || config.Cfg.Location == nil {
		return time.UTC
	}
	return config.Cfg.Location
}

// appNow is the request clock in the application location.
func appNow() time.Time {
	return utils.Now().In(appLocation())
}

// parseDayParam parses an optional YYYY-MM-DD value and returns its day key.
func parseDayParam(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	d, err := engine.ParseDay(s, appLocation())
	if err != nil {
		return "", err
	}
	return d.Format(engine.DateLayout), nil
}
