package repository

import (
	"context"
)

// SheetsRepository defines the interface for spreadsheet writes
type SheetsRepository interface {
	AppendRows(ctx context.Context, spreadsheetID string, sheetID int64, rows [][]string) error
}
