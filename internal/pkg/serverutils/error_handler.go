package serverutils

import (
	"errors"
	"log"

	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/pkg/knowledge"
	"escapadas-chatbot-be/pkg/rag/router"
	"escapadas-chatbot-be/pkg/vector"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into JSON
// responses. Collaborator failures become 503 without leaking details.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, body := mapError(err)
		if code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		}
		return ctx.Status(code).JSON(body)
	}
}

func mapError(err error) (int, *Response) {
	var verr *ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, "Invalid request", verr.Fields)
	case errors.Is(err, router.ErrEmbeddingUnavailable),
		errors.Is(err, router.ErrGenerationFailed):
		return fiber.StatusServiceUnavailable, ErrorResponse(fiber.StatusServiceUnavailable, constant.ChatUnavailableMessage, nil)
	case errors.Is(err, vector.ErrDimensionMismatch),
		errors.Is(err, vector.ErrDegenerateVector),
		errors.Is(err, vector.ErrEmptyIndex),
		errors.Is(err, knowledge.ErrCorpusLoad):
		return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Knowledge base misconfigured", nil)
	case errors.As(err, &ferr):
		return ferr.Code, ErrorResponse(ferr.Code, ferr.Message, nil)
	default:
		return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Internal server error", nil)
	}
}

// PublicMessage returns the message a client may see for err.
func PublicMessage(err error) string {
	_, body := mapError(err)
	return body.Message
}
