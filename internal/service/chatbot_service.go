package service

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/internal/dto"
	"escapadas-chatbot-be/internal/observability"
	"escapadas-chatbot-be/internal/pkg/logger"
	"escapadas-chatbot-be/pkg/knowledge"
	"escapadas-chatbot-be/pkg/rag/router"

	"github.com/google/uuid"
)

type IChatbotService interface {
	SendChat(ctx context.Context, identity string, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Health() *dto.HealthResponse
}

// Responder answers a single message for a conversation.
type Responder interface {
	Route(ctx context.Context, conversationID, message string) (*router.Result, error)
}

// ConversationCounter reports how many conversations are held in memory.
type ConversationCounter interface {
	Count() int
}

type chatbotService struct {
	responder     Responder
	publisher     IInteractionPublisher
	corpus        *knowledge.Corpus
	conversations ConversationCounter
	metrics       *observability.Metrics
	logger        logger.ILogger
}

func NewChatbotService(
	responder Responder,
	publisher IInteractionPublisher,
	corpus *knowledge.Corpus,
	conversations ConversationCounter,
	metrics *observability.Metrics,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		responder:     responder,
		publisher:     publisher,
		corpus:        corpus,
		conversations: conversations,
		metrics:       metrics,
		logger:        logger,
	}
}

// NewRAGLogger opens the file logger used by the retrieval pipeline.
func NewRAGLogger(logPath string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatbotService) SendChat(ctx context.Context, identity string, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()
	message := strings.TrimSpace(request.Message)

	result, err := cs.responder.Route(ctx, identity, message)
	if err != nil {
		cs.metrics.ChatFailures.WithLabelValues(failureReason(err)).Inc()
		cs.logger.Error("CHATBOT", "Failed to answer message", map[string]interface{}{
			"conversation_id": identity,
			"error":           err.Error(),
		})
		return nil, err
	}

	cs.metrics.ObserveChat(result.Origin, time.Since(start))
	if result.Origin == constant.OriginFAQ {
		cs.metrics.FAQScore.Observe(result.Score)
	}

	cs.logger.Info("CHATBOT", "Message answered", map[string]interface{}{
		"conversation_id": identity,
		"origin":          result.Origin,
		"fragment_id":     result.FragmentID,
		"score":           result.Score,
		"duration_ms":     time.Since(start).Milliseconds(),
	})

	cs.publisher.Publish(ctx, &dto.InteractionMessage{
		Id:             uuid.NewString(),
		ConversationId: identity,
		Question:       message,
		Answer:         result.Response,
		Origin:         result.Origin,
		FragmentId:     result.FragmentID,
		Score:          result.Score,
		CreatedAt:      time.Now().UTC(),
	})

	return &dto.ChatResponse{
		Response: result.Response,
		Sticker:  result.Tag,
		Origin:   result.Origin,
	}, nil
}

func (cs *chatbotService) Health() *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:         "ok",
		FAQFragments:   cs.corpus.FAQ.Index.Len(),
		ChunkFragments: cs.corpus.Chunks.Index.Len(),
		Conversations:  cs.conversations.Count(),
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, router.ErrEmbeddingUnavailable):
		return "embedding"
	case errors.Is(err, router.ErrGenerationFailed):
		return "generation"
	default:
		return "internal"
	}
}
