package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const viewStateFileName = "state.sqlite"

// ViewState is the last presentation state for one tree file, restored on
// relaunch. It is best effort: callers should tolerate missing rows and ids
// that no longer exist in the tree.
type ViewState struct {
	TreePath string

	SelectedID int
	DrawRootID int

	XOffset float64
	YOffset float64

	// Scheme is one of: light|dark
	Scheme string
	// Style is one of: regular|slim
	Style string
	Panel bool

	UpdatedAt time.Time
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, viewStateFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateViewState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateViewState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS view_state (
			tree_path TEXT PRIMARY KEY,
			selected_id INTEGER NOT NULL,
			draw_root_id INTEGER NOT NULL,
			x_offset REAL NOT NULL,
			y_offset REAL NOT NULL,
			scheme TEXT NOT NULL,
			style TEXT NOT NULL,
			panel INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func viewStateKey(treePath string) string {
	if abs, err := filepath.Abs(treePath); err == nil {
		return abs
	}
	return filepath.Clean(treePath)
}

// LoadViewState returns the saved state for treePath, or ok=false when none
// exists.
func (s Store) LoadViewState(ctx context.Context, treePath string) (st *ViewState, ok bool, err error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, false, nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	key := viewStateKey(treePath)
	var (
		out   ViewState
		panel int
		ms    int64
	)
	row := db.QueryRowContext(ctx, `SELECT selected_id, draw_root_id, x_offset, y_offset, scheme, style, panel, updated_at_unixms
		FROM view_state WHERE tree_path = ?`, key)
	if err := row.Scan(&out.SelectedID, &out.DrawRootID, &out.XOffset, &out.YOffset, &out.Scheme, &out.Style, &panel, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	out.TreePath = key
	out.Panel = panel != 0
	out.UpdatedAt = time.UnixMilli(ms).UTC()
	return &out, true, nil
}

func (s Store) SaveViewState(ctx context.Context, st *ViewState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	nowMs := time.Now().UTC().UnixMilli()
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO view_state(
			tree_path, selected_id, draw_root_id, x_offset, y_offset, scheme, style, panel, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		viewStateKey(st.TreePath), st.SelectedID, st.DrawRootID, st.XOffset, st.YOffset,
		st.Scheme, st.Style, boolToInt(st.Panel), nowMs)
	return err
}

func (s Store) ForgetViewState(ctx context.Context, treePath string) error {
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM view_state WHERE tree_path = ?`, viewStateKey(treePath))
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
