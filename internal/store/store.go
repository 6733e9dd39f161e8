// Package store persists extraction results in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	sc13dg "github.com/RxDataLab/go-sc13dg"
	"github.com/RxDataLab/go-sc13dg/internal/store/migrations"
)

// Store writes the append-only filing_index and reporting_pages tables.
// Writes are serialized, so one Store can back every batch worker.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_init.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Persist writes a document's index row and page rows in one transaction.
func (s *Store) Persist(ctx context.Context, res *sc13dg.DocumentResult) error {
	return s.persist(ctx, "", res)
}

// Run returns a sink that tags every row with runID.
func (s *Store) Run(runID string) sc13dg.ResultSink {
	return &runSink{store: s, runID: runID}
}

type runSink struct {
	store *Store
	runID string
}

func (r *runSink) Persist(ctx context.Context, res *sc13dg.DocumentResult) error {
	return r.store.persist(ctx, r.runID, res)
}

var _ sc13dg.ResultSink = (*Store)(nil)

func (s *Store) persist(ctx context.Context, runID string, res *sc13dg.DocumentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ix := res.Index
	_, err = tx.ExecContext(ctx, `
		INSERT INTO filing_index (
			run_id, file_name, document, form_type,
			title_page_end_lower_bound, title_page_end, cover_page_q1_start, cover_page_start,
			cover_page_last_question_end, cover_page_end, explanatory_statement_start,
			item_section_start, signature_start, exhibit_start,
			num_cusip_sedol_before_q1, num_cusip_sedol_before_items,
			is_rep_q_as_items, is_schedule_to, has_table_of_contents, has_jumbled_order, has_exhibit_break,
			success, error, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(runID), ix.FileName, ix.Document, ix.FormType,
		ix.TitlePageEndLowerBound, ix.TitlePageEnd, ix.CoverPageQ1Start, ix.CoverPageStart,
		ix.CoverPageLastQuestionEnd, ix.CoverPageEnd, ix.ExplanatoryStatementStart,
		ix.ItemSectionStart, ix.SignatureStart, ix.ExhibitStart,
		ix.NumCUSIPSEDOLBeforeQ1, ix.NumCUSIPSEDOLBeforeItems,
		ix.IsRepQAsItems, ix.IsScheduleTO, ix.HasTableOfContents, ix.HasJumbledOrder, ix.HasExhibitBreak,
		ix.Success, nullString(ix.Error), res.ProcessedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting index row: %w", err)
	}

	for _, p := range res.Pages {
		if err := insertPage(ctx, tx, runID, p); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertPage(ctx context.Context, tx *sql.Tx, runID string, p sc13dg.PageRow) error {
	lists := make([]string, 4)
	for i, l := range [][]string{p.CUSIPs, p.SEDOLs, p.SourceOfFunds, p.ReportingPersonType} {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("marshalling list: %w", err)
		}
		lists[i] = string(b)
	}

	var box5 sql.NullBool
	if p.SC13DBox5 != nil {
		box5 = sql.NullBool{Bool: *p.SC13DBox5, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO reporting_pages (
			run_id, file_name, document, seq, cusips, sedols, rep_person_name,
			box_2a, box_2b, source_of_funds, sc_13d_box_5, citizenship_place_of_organization,
			num_shares_sole_vp, num_shares_shared_vp, num_shares_sole_dp, num_shares_shared_dp,
			agg_amount_owned, certain_shares_exc_from_agg, agg_amount_percentage_share, reporting_person_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(runID), p.FileName, p.Document, p.Seq, lists[0], lists[1], p.ReportingPersonName,
		p.Box2a, p.Box2b, lists[2], box5, p.Citizenship,
		p.SoleVotingPower, p.SharedVotingPower, p.SoleDispositivePower, p.SharedDispositivePower,
		p.AggregateAmountOwned, p.CertainSharesExcluded, p.PercentOfClass, lists[3],
	)
	if err != nil {
		return fmt.Errorf("inserting page %d: %w", p.Seq, err)
	}
	return nil
}

// Processed returns the keys (see FilingRef.Key) of every document with an
// index row, successful or not.
func (s *Store) Processed(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT file_name, document FROM filing_index")
	if err != nil {
		return nil, fmt.Errorf("querying processed documents: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var ref sc13dg.FilingRef
		if err := rows.Scan(&ref.FileName, &ref.Document); err != nil {
			return nil, fmt.Errorf("scanning processed document: %w", err)
		}
		done[ref.Key()] = true
	}
	return done, rows.Err()
}

// IndexRows returns the index rows written for fileName, oldest first.
func (s *Store) IndexRows(ctx context.Context, fileName string) ([]sc13dg.IndexRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_name, document, form_type,
			title_page_end_lower_bound, title_page_end, cover_page_q1_start, cover_page_start,
			cover_page_last_question_end, cover_page_end, explanatory_statement_start,
			item_section_start, signature_start, exhibit_start,
			num_cusip_sedol_before_q1, num_cusip_sedol_before_items,
			is_rep_q_as_items, is_schedule_to, has_table_of_contents, has_jumbled_order, has_exhibit_break,
			success, COALESCE(error, '')
		FROM filing_index WHERE file_name = ? ORDER BY id`, fileName)
	if err != nil {
		return nil, fmt.Errorf("querying index rows: %w", err)
	}
	defer rows.Close()

	var out []sc13dg.IndexRow
	for rows.Next() {
		var r sc13dg.IndexRow
		err := rows.Scan(&r.FileName, &r.Document, &r.FormType,
			&r.TitlePageEndLowerBound, &r.TitlePageEnd, &r.CoverPageQ1Start, &r.CoverPageStart,
			&r.CoverPageLastQuestionEnd, &r.CoverPageEnd, &r.ExplanatoryStatementStart,
			&r.ItemSectionStart, &r.SignatureStart, &r.ExhibitStart,
			&r.NumCUSIPSEDOLBeforeQ1, &r.NumCUSIPSEDOLBeforeItems,
			&r.IsRepQAsItems, &r.IsScheduleTO, &r.HasTableOfContents, &r.HasJumbledOrder, &r.HasExhibitBreak,
			&r.Success, &r.Error)
		if err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PageRows returns the reporting-page rows written for fileName.
func (s *Store) PageRows(ctx context.Context, fileName string) ([]sc13dg.PageRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_name, document, seq, cusips, sedols, rep_person_name,
			box_2a, box_2b, source_of_funds, sc_13d_box_5, citizenship_place_of_organization,
			num_shares_sole_vp, num_shares_shared_vp, num_shares_sole_dp, num_shares_shared_dp,
			agg_amount_owned, certain_shares_exc_from_agg, agg_amount_percentage_share, reporting_person_type
		FROM reporting_pages WHERE file_name = ? ORDER BY id`, fileName)
	if err != nil {
		return nil, fmt.Errorf("querying page rows: %w", err)
	}
	defer rows.Close()

	var out []sc13dg.PageRow
	for rows.Next() {
		var (
			p     sc13dg.PageRow
			lists [4]string
			box5  sql.NullBool
		)
		err := rows.Scan(&p.FileName, &p.Document, &p.Seq, &lists[0], &lists[1], &p.ReportingPersonName,
			&p.Box2a, &p.Box2b, &lists[2], &box5, &p.Citizenship,
			&p.SoleVotingPower, &p.SharedVotingPower, &p.SoleDispositivePower, &p.SharedDispositivePower,
			&p.AggregateAmountOwned, &p.CertainSharesExcluded, &p.PercentOfClass, &lists[3])
		if err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		targets := []*[]string{&p.CUSIPs, &p.SEDOLs, &p.SourceOfFunds, &p.ReportingPersonType}
		for i, target := range targets {
			if err := json.Unmarshal([]byte(lists[i]), target); err != nil {
				return nil, fmt.Errorf("unmarshalling list: %w", err)
			}
		}
		if box5.Valid {
			v := box5.Bool
			p.SC13DBox5 = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// StartRun records the start of a batch run and returns its id.
func (s *Store) StartRun(ctx context.Context, source string, total int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, source, total, started_at) VALUES (?, ?, ?, ?)",
		id, source, total, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of a batch run.
func (s *Store) FinishRun(ctx context.Context, id string, res *sc13dg.BatchResult) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, skipped = ?, succeeded = ?, failed = ?, unavailable = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), res.Skipped, res.Succeeded, res.Failed, res.Unavailable, id)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// RunCounts returns the recorded counts of a finished run.
func (s *Store) RunCounts(ctx context.Context, id string) (*sc13dg.BatchResult, error) {
	var res sc13dg.BatchResult
	var skipped, succeeded, failed, unavailable sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT total, skipped, succeeded, failed, unavailable FROM runs WHERE id = ?", id).
		Scan(&res.Total, &skipped, &succeeded, &failed, &unavailable)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	res.Skipped = int(skipped.Int64)
	res.Succeeded = int(succeeded.Int64)
	res.Failed = int(failed.Int64)
	res.Unavailable = int(unavailable.Int64)
	return &res, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
