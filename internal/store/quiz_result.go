package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendQuizResult(ctx context.Context, data QuizResultData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO quiz_results
		(sequence, timestamp, session_id, subject, total_answered, correct_answers, accuracy_percent, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Subject,
		data.TotalAnswered, data.CorrectAnswers, data.AccuracyPercent, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentQuizResults(ctx context.Context, subject string, limit int) ([]QuizResult, error) {
	query := `SELECT id, sequence, timestamp, session_id, subject, total_answered,
		correct_answers, accuracy_percent, duration_secs FROM quiz_results`
	var args []any
	if subject != "" {
		query += " WHERE subject = ?"
		args = append(args, subject)
	}
	query += " ORDER BY sequence DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var results []QuizResult
	for rows.Next() {
		var (
			q  QuizResult
			ts int64
		)
		if err := rows.Scan(&q.ID, &q.Sequence, &ts, &q.SessionID, &q.Subject,
			&q.TotalAnswered, &q.CorrectAnswers, &q.AccuracyPercent, &q.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		q.Timestamp = time.UnixMilli(ts).UTC()
		results = append(results, q)
	}
	return results, rows.Err()
}
