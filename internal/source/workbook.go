package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook reads tabs from a local xlsx or csv file. It exists so the bot can
// run against a plain spreadsheet file without Google credentials; each fetch
// reopens the file so edits show up on the next command. A csv file has a
// single unnamed tab, so the tab argument is ignored for it.
type Workbook struct {
	path   string
	logger *slog.Logger
}

func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	return &Workbook{path: path, logger: logger}
}

// FetchRows reads all rows of the named sheet.
func (w *Workbook) FetchRows(ctx context.Context, tab string) ([][]string, error) {
	if w.path == "" {
		return nil, fmt.Errorf("no workbook path configured")
	}
	if _, err := os.Stat(w.path); err != nil {
		return nil, fmt.Errorf("workbook %s: %w", w.path, err)
	}

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(w.path), ".csv") {
		rows, err = w.readCSV()
	} else {
		rows, err = w.readSheet(tab)
	}
	if err != nil {
		return nil, err
	}

	w.logger.Debug("workbook tab read", "tab", tab, "rows", len(rows))
	return rows, nil
}

func (w *Workbook) readSheet(tab string) ([][]string, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", tab, err)
	}
	return rows, nil
}

func (w *Workbook) readCSV() ([][]string, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", w.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // sheets are ragged, csv files may be too
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", w.path, err)
	}
	return rows, nil
}
