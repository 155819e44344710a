// Package history keeps a local log of workspace operations, the client-side
// counterpart of the revision trail the service keeps per section.
package history

import (
	"context"
	"database/sql"
	"time"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type Entry struct {
	ID        int64  `json:"id"`
	TS        string `json:"ts" format:"date-time"`
	Op        string `json:"op"`
	ProjectID int64  `json:"project_id,omitempty"`
	SectionID int64  `json:"section_id,omitempty"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
}

// Append records one operation outcome. Callers treat failures as advisory;
// a history write must never fail the operation it describes.
func (w Writer) Append(ctx context.Context, op string, projectID, sectionID int64, outcome, detail string) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	_, err := w.DB.ExecContext(ctx, `INSERT INTO activity(ts,op,project_id,section_id,outcome,detail) VALUES (?,?,?,?,?,?)`,
		ts, op, nullableID(projectID), nullableID(sectionID), outcome, nullableText(detail))
	return err
}

// Recent returns the latest n entries, newest first.
func (w Writer) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := w.DB.QueryContext(ctx, `SELECT id,ts,op,COALESCE(project_id,0),COALESCE(section_id,0),outcome,COALESCE(detail,'')
		FROM activity ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TS, &e.Op, &e.ProjectID, &e.SectionID, &e.Outcome, &e.Detail); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullableText(v string) any {
	if v == "" {
		return nil
	}
	return v
}
