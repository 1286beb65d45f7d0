// Package archive exports and imports the engine's tables as NDJSON for
// backups and environment migration.
package archive

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/lib/pq"           // ensure postgres driver available
	_ "github.com/mattn/go-sqlite3" // ensure sqlite driver available

	"github.com/eslsoft/learnpulse/internal/infrastructure/database"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
)

var errNoTablesSelected = errors.New("archive: no tables selected")

// Table describes one archivable table.
type Table struct {
	Name    string
	Columns []string
	Key     string // conflict target for upsert
	Serial  string // auto-increment column needing sequence sync, if any
}

// Tables lists the archivable tables in import order.
var Tables = []Table{
	{
		Name: "learning_events",
		Columns: []string{
			"id", "user_id", "session_id", "lesson_id", "concept", "device",
			"recorded_at", "success_rate", "schema_version", "payload",
		},
		Key:    "id",
		Serial: "id",
	},
	{
		Name:    "user_profiles",
		Columns: []string{"user_id", "payload", "pattern_count", "updated_at"},
		Key:     "user_id",
	},
}

// ProgressReporter receives progress callbacks during export.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams table contents to and from NDJSON archives.
type Service struct {
	driver    string
	dsn       string
	batchSize int
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService constructs an archive service bound to the provided database
// driver and DSN.
func NewService(driver, dsn string, opts ...Option) (*Service, error) {
	driver = strings.TrimSpace(strings.ToLower(driver))
	switch driver {
	case "postgres", "sqlite3":
	case "":
		return nil, errors.New("archive: driver is required")
	default:
		return nil, fmt.Errorf("archive: unsupported driver %q", driver)
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("archive: DSN is required")
	}

	svc := &Service{driver: driver, dsn: dsn, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the provided table names.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(tables) > 0 {
			cfg.tables = append([]string{}, tables...)
		}
	}
}

// WithProgressReporter registers a reporter for export progress.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts import to the provided table names.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		if len(tables) > 0 {
			cfg.tables = append([]string{}, tables...)
		}
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type      string          `json:"type"`
	Version   int             `json:"version"`
	Tables    []string        `json:"tables"`
	RowCounts map[string]int  `json:"row_counts"`
	Payload   json.RawMessage `json:"payload"`
}

// Migrate ensures the schema exists for the bound database.
func (s *Service) Migrate(ctx context.Context) error {
	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range database.SchemaStatements(s.driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Export writes a meta record followed by one NDJSON record per row.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := selectTables(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	counts := make(map[string]int, len(tables))
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+tbl.Name).Scan(&count); err != nil {
			return fmt.Errorf("count table %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = count
		names = append(names, tbl.Name)
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := time.Now().UTC()
	if err := writeRecord(writer, record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Tables:     names,
		RowCounts:  counts,
	}); err != nil {
		return err
	}

	for _, tbl := range tables {
		reporter.StartTable(tbl.Name, counts[tbl.Name])
		if err := s.exportTable(ctx, db, tbl, reporter, writer); err != nil {
			return err
		}
		reporter.FinishTable(tbl.Name)
	}
	return writer.Flush()
}

// Import replays an archive into the database inside one transaction. Rows
// upsert on their key, so re-importing is idempotent.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := selectTables(cfg.tables)
	if err != nil {
		return err
	}
	wanted := make(map[string]Table, len(tables))
	for _, tbl := range tables {
		wanted[tbl.Name] = tbl
	}

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	br := bufio.NewReader(r)
	var metaSeen bool
	var meta rawRecord
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read archive: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			switch rec.Type {
			case "meta":
				metaSeen = true
				meta = rec
			default:
				tbl, ok := wanted[rec.Type]
				if !ok {
					break
				}
				if len(rec.Payload) == 0 {
					return fmt.Errorf("archive: missing payload for table %s", rec.Type)
				}
				if err := s.importRow(ctx, tx, tbl, rec.Payload); err != nil {
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("archive: missing meta record")
	}
	if meta.Version != formatVersion {
		return fmt.Errorf("archive: unsupported format version %d", meta.Version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true

	return s.syncSequences(ctx, db, tables)
}

func (s *Service) exportTable(ctx context.Context, db *sql.DB, tbl Table, reporter ProgressReporter, w io.Writer) error {
	cols := strings.Join(tbl.Columns, ", ")
	for offset := 0; ; offset += s.batchSize {
		query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT %d OFFSET %d",
			cols, tbl.Name, tbl.Key, s.batchSize, offset)
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("query %s: %w", tbl.Name, err)
		}

		rowCount := 0
		for rows.Next() {
			values := make([]any, len(tbl.Columns))
			dest := make([]any, len(tbl.Columns))
			for i := range dest {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s: %w", tbl.Name, err)
			}

			payload := make(map[string]any, len(tbl.Columns))
			for i, col := range tbl.Columns {
				payload[col] = normalizeValue(values[i])
			}
			if err := writeRecord(w, record{Type: tbl.Name, Payload: payload}); err != nil {
				rows.Close()
				return err
			}
			reporter.Increment(tbl.Name, 1)
			rowCount++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate %s: %w", tbl.Name, err)
		}
		rows.Close()
		if rowCount < s.batchSize {
			return nil
		}
	}
}

func (s *Service) importRow(ctx context.Context, tx *sql.Tx, tbl Table, payload json.RawMessage) error {
	var values map[string]any
	if err := json.Unmarshal(payload, &values); err != nil {
		return fmt.Errorf("decode payload for %s: %w", tbl.Name, err)
	}

	cols := make([]string, 0, len(tbl.Columns))
	args := make([]any, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		val, ok := values[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, val)
	}
	if len(cols) == 0 {
		return nil
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		if s.driver == "postgres" {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}

	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == tbl.Key {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		tbl.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		tbl.Key, strings.Join(updates, ", "))
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", tbl.Name, err)
	}
	return nil
}

// syncSequences realigns postgres serial sequences after explicit id
// inserts. Sqlite keeps its rowid counter in sync on its own.
func (s *Service) syncSequences(ctx context.Context, db *sql.DB, tables []Table) error {
	if s.driver != "postgres" {
		return nil
	}
	for _, tbl := range tables {
		if tbl.Serial == "" {
			continue
		}
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
			tbl.Name, tbl.Serial, tbl.Serial, tbl.Name)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sync sequence for %s: %w", tbl.Name, err)
		}
	}
	return nil
}

func (s *Service) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func selectTables(names []string) ([]Table, error) {
	if len(names) == 0 {
		return Tables, nil
	}
	index := make(map[string]Table, len(Tables))
	for _, tbl := range Tables {
		index[tbl.Name] = tbl
	}
	// Preserve canonical import order regardless of request order.
	requested := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("archive: unknown table %q", name)
		}
		requested[name] = struct{}{}
	}
	var result []Table
	for _, tbl := range Tables {
		if _, ok := requested[tbl.Name]; ok {
			result = append(result, tbl)
		}
	}
	if len(result) == 0 {
		return nil, errNoTablesSelected
	}
	return result, nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
