// Package sheetstore implements the candidature row store on the Google
// Sheets API, authenticated as a service account.
package sheetstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"funnelpay/internal/metrics"
)

// columns A through L
const rowWidth = 12

// Config identifies the spreadsheet and tab rows are appended to.
type Config struct {
	SpreadsheetID string
	Tab           string
	// SheetGID is the numeric grid id of the tab, needed for the
	// formatting copy. 0 is the first tab.
	SheetGID int64
}

// Store appends rows to one spreadsheet tab.
type Store struct {
	svc *sheets.Service
	cfg Config
	log *zap.Logger
}

// New authenticates with the service-account credentials and returns a
// Store for cfg.
func New(ctx context.Context, serviceAccountEmail, privateKey string, cfg Config, log *zap.Logger) (*Store, error) {
	conf := &jwt.Config{
		Email:      serviceAccountEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Store{svc: svc, cfg: cfg, log: log}, nil
}

// AppendRow writes values into the first free row of the tab, then copies
// cell formatting from the row above it. The write is the required side
// effect; the formatting copy is cosmetic and never fails the append.
//
// Values go in as USER_ENTERED so the sheet renders them like manual input;
// callers prefix an apostrophe on fields that must stay literal text.
func (s *Store) AppendRow(ctx context.Context, values []string) error {
	readRange := fmt.Sprintf("%s!A:L", s.cfg.Tab)
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet range: %w", err)
	}

	lastRow := len(resp.Values)
	nextRow := lastRow + 1

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	writeRange := fmt.Sprintf("%s!A%d:L%d", s.cfg.Tab, nextRow, nextRow)
	_, err = s.svc.Spreadsheets.Values.
		Update(s.cfg.SpreadsheetID, writeRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write row %d: %w", nextRow, err)
	}

	// Row 1 is the header; nothing worth copying from it.
	if lastRow > 1 {
		s.copyRowFormat(ctx, lastRow, nextRow)
	}
	return nil
}

// copyRowFormat copies cell formatting from row `from` to row `to`
// (1-based). Failure is logged and counted, never propagated.
func (s *Store) copyRowFormat(ctx context.Context, from, to int) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				CopyPaste: &sheets.CopyPasteRequest{
					Source: &sheets.GridRange{
						SheetId:          s.cfg.SheetGID,
						StartRowIndex:    int64(from - 1),
						EndRowIndex:      int64(from),
						StartColumnIndex: 0,
						EndColumnIndex:   rowWidth,
					},
					Destination: &sheets.GridRange{
						SheetId:          s.cfg.SheetGID,
						StartRowIndex:    int64(to - 1),
						EndRowIndex:      int64(to),
						StartColumnIndex: 0,
						EndColumnIndex:   rowWidth,
					},
					PasteType: "PASTE_FORMAT",
				},
			},
		},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		metrics.SheetFormatCopyFailures.Inc()
		s.log.Warn("could not copy row formatting",
			zap.Int("row", to),
			zap.Error(err))
	}
}
