package sheet

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

const (
	valuesEndpoint = "https://sheets.googleapis.com/v4/spreadsheets"
	readScope      = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// Source supplies raw worksheet records to the pipeline.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// SheetsSource reads a worksheet through the Google Sheets values API using a
// service-account credential.
type SheetsSource struct {
	credentialsPath string
	spreadsheetID   string
	readRange       string
	httpClient      *http.Client
	baseURL         string
}

// SheetsOption configures the source.
type SheetsOption func(*SheetsSource)

// WithHTTPClient injects a pre-authorized HTTP client (primarily for tests).
func WithHTTPClient(client *http.Client) SheetsOption {
	return func(s *SheetsSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithBaseURL overrides the Sheets API endpoint (primarily for tests).
func WithBaseURL(base string) SheetsOption {
	return func(s *SheetsSource) {
		if strings.TrimSpace(base) != "" {
			s.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewSheetsSource constructs a source for the given spreadsheet.
func NewSheetsSource(credentialsPath, spreadsheetID, readRange string, opts ...SheetsOption) (*SheetsSource, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("spreadsheet ID required")
	}
	if strings.TrimSpace(readRange) == "" {
		readRange = "A1:Z"
	}
	source := &SheetsSource{
		credentialsPath: credentialsPath,
		spreadsheetID:   spreadsheetID,
		readRange:       readRange,
		baseURL:         valuesEndpoint,
	}
	for _, opt := range opts {
		opt(source)
	}
	return source, nil
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// Records fetches and filters the worksheet rows.
func (s *SheetsSource) Records(ctx context.Context) ([]Record, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s/values/%s", s.baseURL, url.PathEscape(s.spreadsheetID), url.PathEscape(s.readRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build values request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch worksheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode worksheet values: %w", err)
	}
	return recordsFromRows(payload.Values), nil
}

func (s *SheetsSource) client(ctx context.Context) (*http.Client, error) {
	if s.httpClient != nil {
		return s.httpClient, nil
	}
	data, err := os.ReadFile(s.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read service account credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, readScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	client := conf.Client(ctx)
	client.Timeout = 30 * time.Second
	return client, nil
}

// CSVSource reads records from a local CSV export with the same header row as
// the worksheet. Used by tests and offline builds.
type CSVSource struct {
	path string
}

// NewCSVSource constructs a CSV-backed source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Records reads and filters the CSV rows.
func (s *CSVSource) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv source: %w", err)
	}
	return recordsFromRows(rows), nil
}
