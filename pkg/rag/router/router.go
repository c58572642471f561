package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/pkg/embedding"
	"escapadas-chatbot-be/pkg/knowledge"
	"escapadas-chatbot-be/pkg/llm"
	"escapadas-chatbot-be/pkg/rag/prompt"
	"escapadas-chatbot-be/pkg/rag/response"
	"escapadas-chatbot-be/pkg/rag/session"
)

var (
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrGenerationFailed     = errors.New("generation failed")
)

const (
	DefaultFAQThreshold      = 0.85
	DefaultTemperature       = 0.1
	DefaultGenerationTimeout = 60 * time.Second
)

type Config struct {
	// FAQ matches must score strictly above this to be answered directly.
	FAQThreshold      float64
	Temperature       float64
	GenerationTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		FAQThreshold:      DefaultFAQThreshold,
		Temperature:       DefaultTemperature,
		GenerationTimeout: DefaultGenerationTimeout,
	}
}

// Result is the answer to one message plus the metadata recorded with it.
type Result struct {
	Response   string
	Tag        string
	Origin     string
	FragmentID string
	Score      float64
}

// Router answers one message at a time. A confident FAQ match is paraphrased
// and returned without touching the conversation; anything else goes to the
// generative path grounded on the closest document chunk.
type Router struct {
	embedder    embedding.EmbeddingProvider
	generator   llm.LLMProvider
	paraphraser *response.Paraphraser
	corpus      *knowledge.Corpus
	memory      *session.Memory
	assembler   *prompt.Assembler
	cfg         Config
	logger      *log.Logger
}

func NewRouter(
	embedder embedding.EmbeddingProvider,
	generator llm.LLMProvider,
	paraphraser *response.Paraphraser,
	corpus *knowledge.Corpus,
	memory *session.Memory,
	assembler *prompt.Assembler,
	cfg Config,
	logger *log.Logger,
) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		embedder:    embedder,
		generator:   generator,
		paraphraser: paraphraser,
		corpus:      corpus,
		memory:      memory,
		assembler:   assembler,
		cfg:         cfg,
		logger:      logger,
	}
}

// IsConfident reports whether an FAQ score clears the threshold.
func IsConfident(score, threshold float64) bool {
	return score > threshold
}

// Route answers message for conversationID. The conversation lock is held for
// the whole turn so turns of one identity never interleave.
func (r *Router) Route(ctx context.Context, conversationID, message string) (*Result, error) {
	unlock := r.memory.Lock(conversationID)
	defer unlock()

	query, err := r.embedder.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	faq, err := r.corpus.FAQ.Nearest(query)
	if err != nil {
		return nil, fmt.Errorf("faq lookup: %w", err)
	}

	if IsConfident(faq.Score, r.cfg.FAQThreshold) {
		r.logger.Printf("[ROUTER] FAQ match %q (score %.4f) for %s", faq.ID, faq.Score, conversationID)
		return r.answerFromFAQ(ctx, faq)
	}

	r.logger.Printf("[ROUTER] Best FAQ %q scored %.4f, falling back to generation for %s", faq.ID, faq.Score, conversationID)
	return r.answerGenerative(ctx, conversationID, message, query)
}

func (r *Router) answerFromFAQ(ctx context.Context, match knowledge.Match) (*Result, error) {
	genCtx, cancel := r.withDeadline(ctx)
	defer cancel()

	text, err := r.paraphraser.Paraphrase(genCtx, match.Entry.Content, llm.WithTemperature(r.cfg.Temperature))
	if err != nil {
		return nil, fmt.Errorf("%w: paraphrase: %w", ErrGenerationFailed, err)
	}

	return &Result{
		Response:   text,
		Tag:        match.Entry.Tag(),
		Origin:     constant.OriginFAQ,
		FragmentID: match.ID,
		Score:      match.Score,
	}, nil
}

// answerGenerative must run under the conversation lock. History is only
// written once generation has succeeded.
func (r *Router) answerGenerative(ctx context.Context, conversationID, message string, query []float32) (*Result, error) {
	chunk, err := r.corpus.Chunks.Nearest(query)
	if err != nil {
		return nil, fmt.Errorf("chunk lookup: %w", err)
	}

	conversation := r.memory.GetOrCreate(conversationID)
	messages := r.assembler.Assemble(conversation.Turns, chunk.Entry.Content, message)

	genCtx, cancel := r.withDeadline(ctx)
	defer cancel()

	raw, err := r.generator.Chat(genCtx, messages, llm.WithTemperature(r.cfg.Temperature))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	answer := response.Enrich(raw)
	r.memory.Append(conversationID, llm.Message{Role: llm.RoleUser, Content: message})
	r.memory.Append(conversationID, llm.Message{Role: llm.RoleAssistant, Content: answer})

	return &Result{
		Response:   answer,
		Origin:     constant.OriginGPT,
		FragmentID: chunk.ID,
		Score:      chunk.Score,
	}, nil
}

func (r *Router) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.GenerationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.cfg.GenerationTimeout)
}
