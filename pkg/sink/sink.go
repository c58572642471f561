package sink

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
)

// Sink records answered interactions. Sinks are best effort: callers log a
// failure and carry on.
type Sink interface {
	Name() string
	Record(ctx context.Context, interaction *entity.Interaction) error
}
