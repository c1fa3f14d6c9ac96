package spreadsheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/submission"
)

type session struct {
	google           *sheets.Service
	valueInputOption string
}

type worksheet struct {
	google           *sheets.Service
	spreadsheet      string
	title            string
	valueInputOption string
}

func newSession(google *sheets.Service, valueInputOption string) *session {
	return &session{
		google:           google,
		valueInputOption: valueInputOption,
	}
}

func (s *session) OpenWorksheet(ctx context.Context, document string, name string) (submission.Worksheet, error) {
	id, err := SpreadsheetID(document)
	if err != nil {
		return nil, err
	}

	log.Debugf("Spreadsheet - ID:%s  worksheet:%s", id, name)

	spreadsheet, err := getSpreadsheet(ctx, s.google, id)
	if err != nil {
		return nil, err
	}

	sheet, err := getSheet(spreadsheet, name)
	if err != nil {
		return nil, err
	}

	return &worksheet{
		google:           s.google,
		spreadsheet:      spreadsheet.SpreadsheetId,
		title:            sheet.Properties.Title,
		valueInputOption: s.valueInputOption,
	}, nil
}

// AppendRow appends a single row after the last row of the worksheet's data table.
func (w *worksheet) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	rq := sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{values},
	}

	area := fmt.Sprintf("'%s'!A1", strings.ReplaceAll(w.title, "'", "''"))

	response, err := w.google.Spreadsheets.Values.Append(w.spreadsheet, area, &rq).
		ValueInputOption(w.valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	if response.Updates != nil {
		log.Debugf("Appended %v cells to %v", response.Updates.UpdatedCells, response.Updates.UpdatedRange)
	}

	return nil
}
