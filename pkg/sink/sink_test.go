package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/repository/specification"
	"escapadas-chatbot-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func sampleInteraction() *entity.Interaction {
	return &entity.Interaction{
		Id:             uuid.MustParse("8d7f2d8e-3c43-4b8f-9a51-1c1b0d3f9c11"),
		ConversationId: "203.0.113.9",
		Question:       "How much is Plan X?",
		Answer:         "<p>Plan X is $100.</p>",
		Origin:         "faq",
		BusinessType:   "hotel",
		Intent:         "register",
		KnowledgeLevel: "new",
		FragmentKey:    "f1",
		Score:          0.93,
		CreatedAt:      time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestSheetsSinkAppendsRowInColumnOrder(t *testing.T) {
	var gotPath string
	var gotQuery string
	var body sheets.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	}))
	defer srv.Close()

	s, err := NewSheetsSink(context.Background(), "sheet-123", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	require.NoError(t, s.Record(context.Background(), sampleInteraction()))

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=RAW")
	require.Len(t, body.Values, 1)
	assert.Equal(t, []interface{}{
		"2025-03-04T05:06:07Z", "203.0.113.9", "How much is Plan X?", "<p>Plan X is $100.</p>",
		"faq", "hotel", "register", "new",
	}, body.Values[0])
}

func TestSheetsSinkRequiresSpreadsheet(t *testing.T) {
	_, err := NewSheetsSink(context.Background(), "", "")
	assert.Error(t, err)
}

type capturePublisher struct {
	got []events.Event
	err error
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.got = append(c.got, e)
	return c.err
}

func TestEventSinkPublishesInteraction(t *testing.T) {
	pub := &capturePublisher{}
	s := NewEventSink(pub)

	require.NoError(t, s.Record(context.Background(), sampleInteraction()))
	require.Len(t, pub.got, 1)
	assert.Equal(t, events.TypeInteractionRecorded, pub.got[0].EventType())
	assert.Equal(t, "faq", pub.got[0].Payload()["origin"])
	assert.Equal(t, "203.0.113.9", pub.got[0].Payload()["conversation_id"])

	pub.err = errors.New("no responders")
	assert.Error(t, s.Record(context.Background(), sampleInteraction()))
}

type captureInteractionRepo struct {
	created []*entity.Interaction
}

func (c *captureInteractionRepo) Create(_ context.Context, i *entity.Interaction) error {
	c.created = append(c.created, i)
	i.Id = uuid.New()
	return nil
}

func (c *captureInteractionRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Interaction, error) {
	return c.created, nil
}

func (c *captureInteractionRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(c.created)), nil
}

func TestRepositorySinkDoesNotMutateInput(t *testing.T) {
	repo := &captureInteractionRepo{}
	in := sampleInteraction()
	id := in.Id

	require.NoError(t, NewRepositorySink(repo).Record(context.Background(), in))
	require.Len(t, repo.created, 1)
	assert.Equal(t, id, in.Id)
	assert.Equal(t, "How much is Plan X?", repo.created[0].Question)
}
