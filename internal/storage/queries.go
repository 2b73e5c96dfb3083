package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/session"
)

// Snapshot is everything persisted for one build.
type Snapshot struct {
	Root       string
	Host       string
	BuiltAt    time.Time
	Rows       []model.PlayerSessionRow
	Sessions   []session.Report
	PointsWon  []model.SessionPoints
	GameTotals []model.SessionGameTotals
}

// NewSnapshot collects a build result into a Snapshot.
func NewSnapshot(res dataset.Result, host string) Snapshot {
	return Snapshot{
		Root:       res.Root,
		Host:       host,
		BuiltAt:    res.BuiltAt,
		Rows:       res.Dataset.Rows,
		Sessions:   res.Reports,
		PointsWon:  res.PointsWon,
		GameTotals: res.GameTotals,
	}
}

// Run describes the stored snapshot.
type Run struct {
	ID       string
	Root     string
	Host     string
	BuiltAt  time.Time
	Used     int
	Skipped  int
	RowCount int
}

// PlayerOverview aggregates one player's stored rows.
type PlayerOverview struct {
	Player        string
	Sessions      int
	FirstDate     string // "" when the player has only undated rows
	LastDate      string
	AvgServeSpeed float64
	AvgAccuracy   float64  // mean over all three strokes
	AvgUnforced   *float64 // nil when no row has a rate
}

// ReplaceSnapshot deletes any previous snapshot and writes snap in a single
// transaction. Returns the new run id.
func (db *DB) ReplaceSnapshot(snap Snapshot) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// ---- Clear the previous run ----
	for _, table := range []string{"session_game_totals", "session_points", "player_session_rows", "sessions", "runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return "", fmt.Errorf("clear %s: %w", table, err)
		}
	}

	used := 0
	for _, r := range snap.Sessions {
		if r.Status == session.StatusUsed {
			used++
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO runs(id, root, host, built_at, sessions_used, sessions_skipped, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, snap.Root, snap.Host, snap.BuiltAt.UTC().Format(time.RFC3339),
		used, len(snap.Sessions)-used, len(snap.Rows),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	// ---- Session reports ----
	stmt, err := tx.Prepare(`
		INSERT INTO sessions(name, run_id, date, status, reason, detail, players)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for _, r := range snap.Sessions {
		if _, err := stmt.Exec(r.Name, runID, nullDate(r.Date), string(r.Status), r.Reason, r.Detail, r.Players); err != nil {
			return "", fmt.Errorf("insert session %s: %w", r.Name, err)
		}
	}

	// ---- Dataset rows ----
	rowStmt, err := tx.Prepare(`
		INSERT INTO player_session_rows(
			seq, run_id, player, date,
			serve_speed, serve_accuracy, serve_count,
			forehand_speed, forehand_accuracy, forehand_count,
			backhand_speed, backhand_accuracy, backhand_count,
			unforced_error_rate
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer rowStmt.Close()
	for i, r := range snap.Rows {
		_, err := rowStmt.Exec(
			i, runID, r.Player, nullDate(r.Date),
			r.Serve.AvgSpeed, r.Serve.Accuracy, r.Serve.Count,
			r.Forehand.AvgSpeed, r.Forehand.Accuracy, r.Forehand.Count,
			r.Backhand.AvgSpeed, r.Backhand.Accuracy, r.Backhand.Count,
			nullFloat(r.UnforcedErrorRate),
		)
		if err != nil {
			return "", fmt.Errorf("insert row for %s/%s: %w", r.Player, r.DateString(), err)
		}
	}

	// ---- Point tables ----
	for i, p := range snap.PointsWon {
		if _, err := tx.Exec(`
			INSERT INTO session_points(seq, run_id, date, host_points, guest_points) VALUES (?,?,?,?,?)`,
			i, runID, nullDate(p.Date), p.HostPoints, p.GuestPoints); err != nil {
			return "", fmt.Errorf("insert session_points: %w", err)
		}
	}
	for i, g := range snap.GameTotals {
		if _, err := tx.Exec(`
			INSERT INTO session_game_totals(seq, run_id, date, host_total, guest_total) VALUES (?,?,?,?,?)`,
			i, runID, nullDate(g.Date), g.HostTotal, g.GuestTotal); err != nil {
			return "", fmt.Errorf("insert session_game_totals: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRun returns the stored run, or nil when nothing has been stored yet.
func (db *DB) LatestRun() (*Run, error) {
	var r Run
	var builtAt string
	err := db.conn.QueryRow(`
		SELECT id, root, host, built_at, sessions_used, sessions_skipped, row_count
		FROM runs ORDER BY built_at DESC LIMIT 1`).
		Scan(&r.ID, &r.Root, &r.Host, &builtAt, &r.Used, &r.Skipped, &r.RowCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
	return &r, nil
}

// ListSessions returns the stored session reports ordered by date, undated last.
func (db *DB) ListSessions() ([]session.Report, error) {
	rows, err := db.conn.Query(`
		SELECT name, date, status, reason, detail, players
		FROM sessions ORDER BY date IS NULL, date, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []session.Report
	for rows.Next() {
		var r session.Report
		var date sql.NullString
		var status string
		if err := rows.Scan(&r.Name, &date, &status, &r.Reason, &r.Detail, &r.Players); err != nil {
			return nil, err
		}
		r.Status = session.Status(status)
		if date.Valid {
			r.Date = session.ParseDate(date.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const rowColumns = `player, date,
	serve_speed, serve_accuracy, serve_count,
	forehand_speed, forehand_accuracy, forehand_count,
	backhand_speed, backhand_accuracy, backhand_count,
	unforced_error_rate`

// GetPlayerRows returns one player's stored rows in dataset order.
func (db *DB) GetPlayerRows(player string) ([]model.PlayerSessionRow, error) {
	return db.queryRows(`SELECT `+rowColumns+` FROM player_session_rows WHERE player = ? ORDER BY seq`, player)
}

// GetSessionRows returns the stored rows of the session held on date (YYYY-MM-DD).
func (db *DB) GetSessionRows(date string) ([]model.PlayerSessionRow, error) {
	return db.queryRows(`SELECT `+rowColumns+` FROM player_session_rows WHERE date = ? ORDER BY seq`, date)
}

// GetAllRows returns every stored row in dataset order.
func (db *DB) GetAllRows() ([]model.PlayerSessionRow, error) {
	return db.queryRows(`SELECT ` + rowColumns + ` FROM player_session_rows ORDER BY seq`)
}

func (db *DB) queryRows(query string, args ...any) ([]model.PlayerSessionRow, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSessionRow
	for rows.Next() {
		var r model.PlayerSessionRow
		var date sql.NullString
		var ufe sql.NullFloat64
		if err := rows.Scan(
			&r.Player, &date,
			&r.Serve.AvgSpeed, &r.Serve.Accuracy, &r.Serve.Count,
			&r.Forehand.AvgSpeed, &r.Forehand.Accuracy, &r.Forehand.Count,
			&r.Backhand.AvgSpeed, &r.Backhand.Accuracy, &r.Backhand.Count,
			&ufe,
		); err != nil {
			return nil, err
		}
		if date.Valid {
			r.Date = session.ParseDate(date.String)
		}
		if ufe.Valid {
			v := ufe.Float64
			r.UnforcedErrorRate = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetOverview aggregates the stored rows per player, ordered by player name.
func (db *DB) GetOverview() ([]PlayerOverview, error) {
	rows, err := db.conn.Query(`
		SELECT player,
		       COUNT(*),
		       COALESCE(MIN(date), ''),
		       COALESCE(MAX(date), ''),
		       AVG(serve_speed),
		       AVG((serve_accuracy + forehand_accuracy + backhand_accuracy) / 3.0),
		       AVG(unforced_error_rate)
		FROM player_session_rows
		GROUP BY player
		ORDER BY player`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerOverview
	for rows.Next() {
		var o PlayerOverview
		var ufe sql.NullFloat64
		if err := rows.Scan(&o.Player, &o.Sessions, &o.FirstDate, &o.LastDate,
			&o.AvgServeSpeed, &o.AvgAccuracy, &ufe); err != nil {
			return nil, err
		}
		if ufe.Valid {
			v := ufe.Float64
			o.AvgUnforced = &v
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetPointsWon returns the stored points-won table in dataset order.
func (db *DB) GetPointsWon() ([]model.SessionPoints, error) {
	rows, err := db.conn.Query(`SELECT date, host_points, guest_points FROM session_points ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionPoints
	for rows.Next() {
		var p model.SessionPoints
		var date sql.NullString
		if err := rows.Scan(&date, &p.HostPoints, &p.GuestPoints); err != nil {
			return nil, err
		}
		if date.Valid {
			p.Date = session.ParseDate(date.String)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetGameTotals returns the stored aggregated game-score table in dataset order.
func (db *DB) GetGameTotals() ([]model.SessionGameTotals, error) {
	rows, err := db.conn.Query(`SELECT date, host_total, guest_total FROM session_game_totals ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionGameTotals
	for rows.Next() {
		var g model.SessionGameTotals
		var date sql.NullString
		if err := rows.Scan(&date, &g.HostTotal, &g.GuestTotal); err != nil {
			return nil, err
		}
		if date.Valid {
			g.Date = session.ParseDate(date.String)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns its column names and
// rows rendered as strings. NULL becomes "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(x)
			case float64:
				rec[i] = fmt.Sprintf("%.4g", x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func nullDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(model.DateLayout)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
