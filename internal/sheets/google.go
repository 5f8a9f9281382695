package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"aruskas/internal/cashflow"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// GoogleMirror appends mutation rows to a Google Sheets worksheet.
type GoogleMirror struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ Mirror = (*GoogleMirror)(nil)

// NewFromEnv creates a Google Sheets mirror using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "CashFlow"), credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*GoogleMirror, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "CashFlow"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &GoogleMirror{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendRecord writes one row in the backend wire shape so the sheet
// reads the same as the API payloads.
func (g *GoogleMirror) AppendRecord(ctx context.Context, rec cashflow.Record) error {
	if g.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row := []any{
		rec.ID,
		deref(rec.PlannedDate),
		deref(rec.RealizationDate),
		rec.Name,
		rec.Type,
		rec.Description,
		rec.Status,
		int64(rec.PlannedAmount),
		int64(rec.RealizationAmount),
		time.Now().UTC().Format(time.RFC3339),
	}
	return g.append(ctx, row)
}

// AppendTombstone marks a deleted record without touching prior rows.
func (g *GoogleMirror) AppendTombstone(ctx context.Context, id string) error {
	if g.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row := []any{
		id, nil, nil, nil, nil, nil, "deleted", nil, nil,
		time.Now().UTC().Format(time.RFC3339),
	}
	return g.append(ctx, row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (g *GoogleMirror) append(ctx context.Context, row []any) error {
	rng := fmt.Sprintf("%s!A:J", g.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %s: %w", g.sheetName, err)
	}
	return nil
}
