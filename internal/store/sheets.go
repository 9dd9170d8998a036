package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// DefaultRange covers the four task columns below the header row.
const DefaultRange = "Tasks!A2:D"

// SheetsStore keeps tasks in a Google Sheet, one task per row:
// text, priority, status, due date.
type SheetsStore struct {
	srv           *sheets.Service
	spreadsheetID string
	readRange     string
	log           *logrus.Logger
}

// NewSheetsStore authenticates with a service-account credentials file
// and binds to one spreadsheet.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID, readRange string, log *logrus.Logger) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID not configured")
	}
	if readRange == "" {
		readRange = DefaultRange
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetsStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		log:           log,
	}, nil
}

// List reads every task row. Rows may be ragged; missing trailing cells
// default to empty fields.
func (s *SheetsStore) List(ctx context.Context) ([]task.Task, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	tasks := make([]task.Task, 0, len(resp.Values))
	for i, row := range resp.Values {
		// Data starts at sheet row 2; row 1 is the header.
		tasks = append(tasks, rowToTask(row, i+2))
	}
	return tasks, nil
}

// Append adds the draft as a new row below the existing data.
func (s *SheetsStore) Append(ctx context.Context, d task.Draft) error {
	status := d.Status
	if strings.TrimSpace(status) == "" {
		status = task.DefaultStatus
	}

	vr := &sheets.ValueRange{
		Values: [][]interface{}{
			{d.Text, d.Priority.String(), status, d.DueDate},
		},
	}

	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, s.readRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	s.log.WithField("task", d.Text).Info("task appended to sheet")
	return nil
}

func rowToTask(row []interface{}, sheetRow int) task.Task {
	status := cell(row, 2)
	if strings.TrimSpace(status) == "" {
		status = task.DefaultStatus
	}
	return task.Task{
		Text:     cell(row, 0),
		Priority: task.ParsePriority(cell(row, 1)),
		Status:   status,
		DueDate:  strings.TrimSpace(cell(row, 3)),
		Row:      sheetRow,
	}
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}
