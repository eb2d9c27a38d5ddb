// Package source provides the tabular row sources the lookup engine reads
// from: the Google Sheets API for production and a local workbook file for
// development and tests.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sheetbot/internal/domain"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheets reads tabs from one spreadsheet through the Sheets v4 API with
// read-only service-account credentials. The API client is built lazily on
// first use and cached for the life of the process; credentials are only
// validated at that point.
type GoogleSheets struct {
	email         string
	privateKey    string
	spreadsheetID string
	logger        *slog.Logger

	mu  sync.Mutex
	svc *sheets.Service
}

type GoogleConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SpreadsheetID       string
	Logger              *slog.Logger
}

func NewGoogleSheets(cfg GoogleConfig) *GoogleSheets {
	return &GoogleSheets{
		email:         cfg.ServiceAccountEmail,
		privateKey:    cfg.PrivateKey,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        cfg.Logger,
	}
}

// service returns the cached Sheets client, building it on first call.
func (g *GoogleSheets) service(ctx context.Context) (*sheets.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.svc != nil {
		return g.svc, nil
	}

	switch {
	case g.email == "":
		return nil, domain.ConfigErrorf("missing service account email (GOOGLE_SERVICE_ACCOUNT_EMAIL)")
	case g.privateKey == "":
		return nil, domain.ConfigErrorf("missing service account private key (GOOGLE_PRIVATE_KEY)")
	case g.spreadsheetID == "":
		return nil, domain.ConfigErrorf("missing spreadsheet ID (GOOGLE_SHEETS_ID)")
	}

	conf := &jwt.Config{
		Email:      g.email,
		PrivateKey: []byte(normalizePrivateKey(g.privateKey)),
		Scopes:     []string{sheets.SpreadsheetsReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(context.Background())))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	g.logger.Info("sheets client ready", "spreadsheet", g.spreadsheetID)
	g.svc = svc
	return svc, nil
}

// FetchRows fetches the full contents of one tab (columns A through Z).
func (g *GoogleSheets) FetchRows(ctx context.Context, tab string) ([][]string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("'%s'!A:Z", tab)
	resp, err := svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", tab, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func cellString(cell any) string {
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

// normalizePrivateKey turns the escaped "\n" sequences that env vars carry
// into real newlines, as PEM parsing requires.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
