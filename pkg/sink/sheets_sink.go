package sink

import (
	"context"
	"fmt"

	"escapadas-chatbot-be/internal/entity"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const DefaultSheetRange = "Sheet1!A1"

// SheetsSink appends one row per interaction to a Google spreadsheet.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetRange    string
}

func NewSheetsSink(ctx context.Context, spreadsheetID, sheetRange string, opts ...option.ClientOption) (*SheetsSink, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if sheetRange == "" {
		sheetRange = DefaultSheetRange
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsSink{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}, nil
}

func (s *SheetsSink) Name() string {
	return "sheets"
}

func (s *SheetsSink) Record(ctx context.Context, interaction *entity.Interaction) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{interaction.Row()}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}
