package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/provisioning"
	"github.com/abastoflow/abastoflow/internal/domain"
)

// errorStatus traduce errores de dominio a status HTTP y código de ErrorResponse.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidPayment):
		return fiber.StatusBadRequest, "INVALID_PAYMENT"
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInsufficientPayment):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, provisioning.ErrCannotDeleteSelf):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, provisioning.ErrRequesterMissing):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, provisioning.ErrRequestNotPending):
		return fiber.StatusConflict, "CONFLICT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// internalMessage lo que ve el cliente ante un error no clasificado; el detalle queda en el log.
const internalMessage = "error interno, intente más tarde"

// respondError escribe el ErrorResponse correspondiente a err.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: clientMessage(c, status, err)})
}

// clientMessage texto de err para la respuesta; los 500 se registran y no exponen el error.
func clientMessage(c *fiber.Ctx, status int, err error) string {
	if status != fiber.StatusInternalServerError {
		return err.Error()
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return internalMessage
}

// pathID lee el parámetro :id; un valor que no es UUID es entrada inválida, no un 500 de la base.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if !domain.ValidID(id) {
		return "", fmt.Errorf("id %q: %w", id, domain.ErrInvalidInput)
	}
	return id, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
