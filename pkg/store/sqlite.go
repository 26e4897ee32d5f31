package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"tableflip.dev/notebox/pkg/note"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("store: not found")

// driverName is go-sqlite3 with a Unicode-aware notebox_lower(); SQLite's
// LOWER only folds ASCII.
const driverName = "sqlite3_notebox"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("notebox_lower", strings.ToLower, true)
		},
	})
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sections (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS details (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	section_id  INTEGER NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	code_path   TEXT NOT NULL DEFAULT '',
	language    TEXT NOT NULL DEFAULT 'none',
	created_at  TEXT NOT NULL,
	FOREIGN KEY(section_id) REFERENCES sections(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_details_section ON details(section_id);
`

// Persistence is the durable mirror of the section/detail tree.
type Persistence interface {
	LoadAll(ctx context.Context) ([]note.Section, error)
	SaveSection(ctx context.Context, s *note.Section) error
	DeleteSection(ctx context.Context, id int64) error
	DeleteDetail(ctx context.Context, sectionID, id int64) error
	SearchLocal(ctx context.Context, query string) ([]Match, error)
	Stats(ctx context.Context) (Stats, error)
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Match is a local search hit. Detail is nil when only the section title
// matched.
type Match struct {
	Section note.Section
	Detail  *note.Detail
}

// Stats summarizes the store contents.
type Stats struct {
	Sections int
	Details  int
}

// DB is the SQLite implementation of Persistence.
type DB struct {
	conn *sql.DB
	path string
}

var _ Persistence = (*DB)(nil)

// Load opens the store described by cfg, loading the configuration when
// cfg is nil.
func Load(ctx context.Context, cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return Open(ctx, cfg.DatabasePath())
}

// Open opens (or creates) the database at path, applies the schema and
// seeds a default section when the store is empty.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := db.seed(ctx); err != nil {
		db.conn.Close()
		return nil, err
	}
	return db, nil
}

func open(ctx context.Context, path string) (*DB, error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	conn, err := sql.Open(driverName, path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadAll returns every section ordered by id with its details ordered by
// id.
func (db *DB) LoadAll(ctx context.Context) ([]note.Section, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: load sections: %w", err)
	}
	defer rows.Close()

	var sections []note.Section
	index := make(map[int64]int)
	for rows.Next() {
		var s note.Section
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("store: scan section: %w", err)
		}
		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load sections: %w", err)
	}

	drows, err := db.conn.QueryContext(ctx, `
		SELECT id, section_id, title, description, code_path, language, created_at
		FROM details ORDER BY section_id, id`)
	if err != nil {
		return nil, fmt.Errorf("store: load details: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var (
			sectionID int64
			lang      string
			d         note.Detail
		)
		if err := drows.Scan(&d.ID, &sectionID, &d.Title, &d.Description, &d.CodePath, &lang, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan detail: %w", err)
		}
		if d.Language, err = note.ParseLanguage(lang); err != nil {
			return nil, fmt.Errorf("store: detail %d: %w", d.ID, err)
		}
		if i, ok := index[sectionID]; ok {
			sections[i].Details = append(sections[i].Details, d)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("store: load details: %w", err)
	}
	return sections, nil
}

func (db *DB) seed(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&count); err != nil {
		return fmt.Errorf("store: count sections: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, `INSERT INTO sections (title) VALUES (?)`, note.DefaultSectionTitle); err != nil {
		return fmt.Errorf("store: seed section: %w", err)
	}
	return nil
}

// SaveSection upserts the section row and replaces all of its details with
// s.Details. New ids are written back into s.
func (db *DB) SaveSection(ctx context.Context, s *note.Section) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	sectionID := s.ID
	if sectionID == 0 {
		res, err := tx.ExecContext(ctx, `INSERT INTO sections (title) VALUES (?)`, s.Title)
		if err != nil {
			return fmt.Errorf("store: insert section: %w", err)
		}
		if sectionID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("store: section id: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `UPDATE sections SET title = ? WHERE id = ?`, s.Title, sectionID)
		if err != nil {
			return fmt.Errorf("store: update section: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx, `INSERT INTO sections (id, title) VALUES (?, ?)`, sectionID, s.Title); err != nil {
				return fmt.Errorf("store: insert section %d: %w", sectionID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM details WHERE section_id = ?`, sectionID); err != nil {
		return fmt.Errorf("store: clear details: %w", err)
	}

	ids := make([]int64, len(s.Details))
	if len(s.Details) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO details (section_id, title, description, code_path, language, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare detail insert: %w", err)
		}
		defer stmt.Close()
		for i, d := range s.Details {
			res, err := stmt.ExecContext(ctx, sectionID, d.Title, d.Description, d.CodePath, d.Language.String(), d.CreatedAt)
			if err != nil {
				return fmt.Errorf("store: insert detail: %w", err)
			}
			if ids[i], err = res.LastInsertId(); err != nil {
				return fmt.Errorf("store: detail id: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	s.ID = sectionID
	for i := range s.Details {
		s.Details[i].ID = ids[i]
	}
	return nil
}

// DeleteSection removes the section and, through the foreign key, its
// details.
func (db *DB) DeleteSection(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete section: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: delete section %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteDetail removes exactly one detail row.
func (db *DB) DeleteDetail(ctx context.Context, sectionID, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM details WHERE section_id = ? AND id = ?`, sectionID, id)
	if err != nil {
		return fmt.Errorf("store: delete detail: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: delete detail %d/%d: %w", sectionID, id, ErrNotFound)
	}
	return nil
}

// SearchLocal returns sections whose title, and details whose title or
// description, contain query case-insensitively.
func (db *DB) SearchLocal(ctx context.Context, query string) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	needle := strings.ToLower(query)
	pattern := "%" + escapeLike(needle) + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.title, d.id, d.title, d.description, d.code_path, d.language, d.created_at
		FROM sections s
		LEFT JOIN details d ON d.section_id = s.id
		WHERE notebox_lower(s.title) LIKE ? ESCAPE '\'
		   OR notebox_lower(COALESCE(d.title, '')) LIKE ? ESCAPE '\'
		   OR notebox_lower(COALESCE(d.description, '')) LIKE ? ESCAPE '\'
		ORDER BY s.id, d.id`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []Match
	seen := make(map[int64]bool)
	for rows.Next() {
		var (
			s                                     note.Section
			id                                    sql.NullInt64
			title, desc, codePath, lang, created sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &id, &title, &desc, &codePath, &lang, &created); err != nil {
			return nil, fmt.Errorf("store: scan match: %w", err)
		}
		if strings.Contains(strings.ToLower(s.Title), needle) && !seen[s.ID] {
			seen[s.ID] = true
			out = append(out, Match{Section: s})
		}
		if !id.Valid {
			continue
		}
		if !strings.Contains(strings.ToLower(title.String), needle) &&
			!strings.Contains(strings.ToLower(desc.String), needle) {
			continue
		}
		d := note.Detail{
			ID:          id.Int64,
			Title:       title.String,
			Description: desc.String,
			CodePath:    codePath.String,
			CreatedAt:   created.String,
		}
		if d.Language, err = note.ParseLanguage(lang.String); err != nil {
			return nil, fmt.Errorf("store: detail %d: %w", d.ID, err)
		}
		out = append(out, Match{Section: s, Detail: &d})
	}
	return out, rows.Err()
}

// Stats counts sections and details.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM sections), (SELECT COUNT(*) FROM details)`).Scan(&st.Sections, &st.Details)
	if err != nil {
		return Stats{}, fmt.Errorf("store: stats: %w", err)
	}
	return st, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
