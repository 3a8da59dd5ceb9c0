package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrWorksheetNotFound is returned when a spreadsheet has no worksheet with
// the requested id
var ErrWorksheetNotFound = errors.New("worksheet not found")

// SheetsService appends rows to Google Sheets worksheets
type SheetsService struct {
	sheetsService *sheets.Service
	client        *relay.Client
	logger        logger.Logger
}

// NewSheetsService creates a new Sheets service. opts carries the
// credentials, usually option.WithTokenSource.
func NewSheetsService(ctx context.Context, client *relay.Client, logger logger.Logger, opts ...option.ClientOption) (repository.SheetsRepository, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &SheetsService{
		sheetsService: service,
		client:        client,
		logger:        logger,
	}, nil
}

// AppendRows appends rows after the last row of the worksheet with sheetID
func (s *SheetsService) AppendRows(ctx context.Context, spreadsheetID string, sheetID int64, rows [][]string) error {
	if spreadsheetID == "" {
		return errors.New("spreadsheet id is required")
	}

	title, err := s.worksheetTitle(ctx, spreadsheetID, sheetID)
	if err != nil {
		return err
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}

	err = s.client.Track(ctx, "append_rows", func(ctx context.Context) (int, error) {
		resp, err := s.sheetsService.Spreadsheets.Values.
			Append(spreadsheetID, quoteSheetTitle(title), &sheets.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return googleStatus(err), err
		}
		return resp.HTTPStatusCode, nil
	})
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	s.logger.Info("Data appended successfully",
		"spreadsheetId", spreadsheetID,
		"worksheet", title,
		"rows", len(rows))
	return nil
}

func (s *SheetsService) worksheetTitle(ctx context.Context, spreadsheetID string, sheetID int64) (string, error) {
	var title string
	err := s.client.Track(ctx, "get_spreadsheet", func(ctx context.Context) (int, error) {
		ss, err := s.sheetsService.Spreadsheets.Get(spreadsheetID).
			Fields("sheets.properties(sheetId,title)").
			Context(ctx).
			Do()
		if err != nil {
			return googleStatus(err), err
		}
		for _, sheet := range ss.Sheets {
			if sheet.Properties != nil && sheet.Properties.SheetId == sheetID {
				title = sheet.Properties.Title
				break
			}
		}
		return ss.HTTPStatusCode, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	if title == "" {
		return "", fmt.Errorf("sheet %d: %w", sheetID, ErrWorksheetNotFound)
	}
	return title, nil
}

// quoteSheetTitle renders a worksheet title as an A1 range
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func googleStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsNotFound reports whether err means the spreadsheet or worksheet is missing
func IsNotFound(err error) bool {
	if errors.Is(err, ErrWorksheetNotFound) {
		return true
	}
	return googleStatus(err) == 404
}
