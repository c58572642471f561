package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"escapadas-chatbot-be/internal/config"
	"escapadas-chatbot-be/internal/repository/specification"
	"escapadas-chatbot-be/internal/repository/unitofwork"
	"escapadas-chatbot-be/pkg/database"
	"escapadas-chatbot-be/pkg/embedding"
	"escapadas-chatbot-be/pkg/knowledge"
	"escapadas-chatbot-be/pkg/utils"

	"github.com/fatih/color"
)

// ingest builds the knowledge base files read at startup: the document is
// split into token windows and embedded, and every FAQ question is embedded.
// With -upload the result is also written to Postgres for CORPUS_SOURCE=postgres.
func main() {
	document := flag.String("document", "", "plain text extracted from the business document")
	chunkSize := flag.Int("chunk-size", utils.DefaultChunkTokens, "tokens per chunk")
	overlap := flag.Int("overlap", utils.DefaultChunkOverlap, "tokens shared by consecutive chunks")
	upload := flag.Bool("upload", false, "also upsert the fragments into DB_CONNECTION_STRING")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	embedder, err := embedding.NewProvider(embedding.ProviderConfig{
		Provider:     cfg.Ai.EmbeddingProvider,
		Model:        cfg.Ai.EmbeddingModel,
		OpenAIKey:    cfg.Keys.OpenAI,
		OpenAIURL:    cfg.Ai.OpenAIBaseURL,
		OllamaURL:    cfg.Ai.OllamaBaseURL,
		GeminiAPIKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		fatal("Embedding provider: %v", err)
	}

	color.Cyan("📚 Building knowledge base with %s (%s)\n", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	if *document != "" {
		color.Yellow("\n1. Chunking %s", *document)
		raw, err := os.ReadFile(*document)
		if err != nil {
			fatal("Read document: %v", err)
		}
		chunker, err := utils.NewTokenChunker(*chunkSize, *overlap)
		if err != nil {
			fatal("Tokenizer: %v", err)
		}
		chunks, err := chunker.Split(string(raw))
		if err != nil {
			fatal("Chunking: %v", err)
		}
		color.Green("%d chunks of up to %d tokens", len(chunks), *chunkSize)

		content, vectors, err := knowledge.EmbedChunks(ctx, embedder, chunks)
		if err != nil {
			fatal("Embedding chunks: %v", err)
		}
		writeJSON(cfg.Corpus.ChunkDataPath, content)
		writeJSON(cfg.Corpus.ChunkEmbeddingPath, vectors)
	} else {
		color.Yellow("\n1. No -document given, keeping existing chunk files")
	}

	color.Yellow("\n2. Embedding FAQ questions from %s", cfg.Corpus.FAQDataPath)
	var faq map[string]knowledge.FAQRecord
	raw, err := os.ReadFile(cfg.Corpus.FAQDataPath)
	if err != nil {
		fatal("Read FAQ: %v", err)
	}
	if err := json.Unmarshal(raw, &faq); err != nil {
		fatal("Decode FAQ: %v", err)
	}
	faqVectors, err := knowledge.EmbedFAQ(ctx, embedder, faq)
	if err != nil {
		fatal("Embedding FAQ: %v", err)
	}
	writeJSON(cfg.Corpus.FAQEmbeddingsPath, faqVectors)

	color.Yellow("\n3. Verifying knowledge base")
	source := knowledge.FileSource{
		FAQDataPath:        cfg.Corpus.FAQDataPath,
		FAQEmbeddingsPath:  cfg.Corpus.FAQEmbeddingsPath,
		ChunkDataPath:      cfg.Corpus.ChunkDataPath,
		ChunkEmbeddingPath: cfg.Corpus.ChunkEmbeddingPath,
	}
	corpus, err := knowledge.LoadCorpus(ctx, source)
	if err != nil {
		fatal("Verification failed: %v", err)
	}
	color.Green("%d FAQ entries, %d chunks, %d dimensions", corpus.FAQ.Index.Len(), corpus.Chunks.Index.Len(), corpus.FAQ.Index.Dimensions())

	if !*upload {
		color.Cyan("\n✅ Done")
		return
	}

	color.Yellow("\n4. Uploading to Postgres")
	if cfg.Database.Connection == "" {
		fatal("DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		fatal("Connect database: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	for _, universe := range []string{knowledge.UniverseFAQ, knowledge.UniverseChunks} {
		fragments, err := source.LoadUniverse(ctx, universe)
		if err != nil {
			fatal("Load %s: %v", universe, err)
		}
		uow := uowFactory.NewUnitOfWork(ctx)
		if err := unitofwork.ReplaceUniverse(ctx, uow, universe, knowledge.ToEntities(universe, fragments)); err != nil {
			fatal("%v", err)
		}
		stored, err := uowFactory.NewUnitOfWork(ctx).KnowledgeFragmentRepository().Count(ctx, specification.ByUniverse{Universe: universe})
		if err != nil {
			fatal("Count %s: %v", universe, err)
		}
		color.Green("%s: %d fragments uploaded, %d stored", universe, len(fragments), stored)
	}

	color.Cyan("\n✅ Done")
}

func writeJSON(path string, v any) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fatal("Create %s: %v", filepath.Dir(path), err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("Encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		fatal("Write %s: %v", path, err)
	}
	color.Green("Wrote %s", path)
}

func fatal(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}
