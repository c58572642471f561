package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"escapadas-chatbot-be/internal/config"
	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/internal/repository/specification"
	"escapadas-chatbot-be/internal/repository/unitofwork"
	"escapadas-chatbot-be/pkg/database"

	"github.com/fatih/color"
)

// interactions prints the interactions recorded by the database sink, newest
// first, followed by a per-origin count.
func main() {
	conversation := flag.String("conversation", "", "only show this client identity")
	origin := flag.String("origin", "", "only show faq or gpt answers")
	limit := flag.Int("limit", 50, "maximum rows to print")
	offset := flag.Int("offset", 0, "rows to skip")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Connect database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).InteractionRepository()

	var filters []specification.Specification
	if *conversation != "" {
		filters = append(filters, specification.ByConversation{ConversationId: *conversation})
	}
	if *origin != "" {
		filters = append(filters, specification.ByOrigin{Origin: *origin})
	}

	rows, err := repo.FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: *limit, Offset: *offset},
	)...)
	if err != nil {
		color.Red("Query interactions: %v", err)
		os.Exit(1)
	}

	for _, interaction := range rows {
		color.Yellow("%s  %s", interaction.CreatedAt.Format("2006-01-02 15:04:05"), interaction.ConversationId)
		color.White("  Q: %s", interaction.Question)
		color.White("  A: %s", strings.TrimSpace(interaction.Answer))
		color.Cyan("  [%s] %s / %s / %s", interaction.Origin, interaction.BusinessType, interaction.Intent, interaction.KnowledgeLevel)
	}

	for _, o := range []string{constant.OriginFAQ, constant.OriginGPT} {
		count, err := repo.Count(ctx, append(filters, specification.ByOrigin{Origin: o})...)
		if err != nil {
			color.Red("Count %s: %v", o, err)
			os.Exit(1)
		}
		color.Green("%s answers: %d", o, count)
	}
}
