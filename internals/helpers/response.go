package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/helpers/apperr"
)

// Response envelope convention: {"success": bool, "message"?: string, <resource>: ...}.

// JsonOK — 200 with resource payload merged into the envelope.
func JsonOK(c *fiber.Ctx, message string, data fiber.Map) error {
	return JsonWithCode(c, fiber.StatusOK, message, data)
}

// JsonCreated — 201 for create endpoints.
func JsonCreated(c *fiber.Ctx, message string, data fiber.Map) error {
	return JsonWithCode(c, fiber.StatusCreated, message, data)
}

func JsonWithCode(c *fiber.Ctx, code int, message string, data fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(code).JSON(body)
}

// JsonError — plain error envelope.
func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// JsonErrorWithDetails — error envelope with per-field details.
func JsonErrorWithDetails(c *fiber.Ctx, code int, message string, errs any) error {
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
		"errors":  errs,
	})
}

// FromError translates an apperr (or anything else) into the envelope.
func FromError(c *fiber.Ctx, err error) error {
	ae := apperr.As(err)
	if len(ae.Fields) > 0 {
		return JsonErrorWithDetails(c, ae.Kind.HTTPStatus(), ae.Message, ae.Fields)
	}
	return JsonError(c, ae.Kind.HTTPStatus(), ae.Message)
}

// ValidationError converts validator.v10 failures into one 400 response
// carrying every offending field (batch-style reporting).
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		switch fieldErr.Tag() {
		case "required":
			errorsMap[fieldErr.Field()] = fieldErr.Field() + " is required"
		case "email":
			errorsMap[fieldErr.Field()] = "invalid email format"
		case "min":
			errorsMap[fieldErr.Field()] = "must be at least " + fieldErr.Param() + " characters"
		case "max":
			errorsMap[fieldErr.Field()] = "must be at most " + fieldErr.Param() + " characters"
		case "oneof":
			errorsMap[fieldErr.Field()] = "must be one of " + fieldErr.Param()
		default:
			errorsMap[fieldErr.Field()] = "invalid value"
		}
	}
	return JsonErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", errorsMap)
}
