package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"escapadas-chatbot-be/pkg/rag/router"
	"escapadas-chatbot-be/pkg/vector"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Message        string `validate:"required,max=10"`
	ClientIdentity string `validate:"max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Message: "hi"}))

	err := ValidateRequest(sampleRequest{ClientIdentity: "too-long-id"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["message"])
	assert.Equal(t, "must be at most 5 characters", verr.Fields["client_identity"])
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", ValidateRequest(sampleRequest{}), fiber.StatusBadRequest},
		{"embedding", fmt.Errorf("%w: timeout", router.ErrEmbeddingUnavailable), fiber.StatusServiceUnavailable},
		{"generation", fmt.Errorf("%w: 500", router.ErrGenerationFailed), fiber.StatusServiceUnavailable},
		{"dimension", fmt.Errorf("faq lookup: %w", vector.ErrDimensionMismatch), fiber.StatusInternalServerError},
		{"fiber", fiber.ErrUnprocessableEntity, fiber.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body Response
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.NotContains(t, body.Message, "timeout")
		})
	}
}

func TestPublicMessageHidesDetails(t *testing.T) {
	msg := PublicMessage(fmt.Errorf("%w: upstream 401: invalid api key sk-123", router.ErrEmbeddingUnavailable))
	assert.NotContains(t, msg, "sk-123")
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: relation missing")))
}
