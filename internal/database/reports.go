package database

import "database/sql"

// InsertReport records one analysis run.
func (db *DB) InsertReport(provider string, signalCount int, outcome, message string) (int64, error) {
	var msg *string
	if message != "" {
		msg = &message
	}
	result, err := db.conn.Exec(
		`INSERT INTO run_reports (provider, signal_count, outcome, message) VALUES (?, ?, ?, ?)`,
		provider, signalCount, outcome, msg,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRecentReports returns the most recent run reports, newest first.
func (db *DB) GetRecentReports(limit int) ([]RunReport, error) {
	rows, err := db.conn.Query(
		`SELECT id, ran_at, provider, signal_count, outcome, message
		FROM run_reports ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []RunReport
	for rows.Next() {
		var r RunReport
		if err := rows.Scan(&r.ID, &r.RanAt, &r.Provider, &r.SignalCount, &r.Outcome, &r.Message); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM kv", &s.Slots},
		{"SELECT COUNT(*) FROM run_reports", &s.Runs},
		{"SELECT COUNT(*) FROM run_reports WHERE outcome != 'ok'", &s.FailedRuns},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	row := db.conn.QueryRow("SELECT ran_at, outcome FROM run_reports ORDER BY id DESC LIMIT 1")
	if err := row.Scan(&s.LastRunAt, &s.LastOutcome); err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return s, nil
}
