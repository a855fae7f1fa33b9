package imessage

import "context"

// DiagnosticReport summarizes structural anomalies in a chat.db, per
// SPEC_FULL.md §12, grounded on original_source's Message::run_diagnostic.
type DiagnosticReport struct {
	TotalMessages           int64
	DanglingMessages         int64 // no chat_message_join row at all
	MessagesInMultipleChats  int64 // more than one chat_message_join row
}

// Diagnose runs the three counting queries original_source's run_diagnostic
// performs and returns their totals instead of printing them, so a caller
// (the CLI's diagnose subcommand) can format or log the result itself.
func Diagnose(ctx context.Context, c *ChatDB) (DiagnosticReport, error) {
	var report DiagnosticReport

	err := c.db.QueryRow(ctx, `
		SELECT COUNT(m.rowid)
		FROM message m
		LEFT JOIN chat_message_join c ON m.rowid = c.message_id
		WHERE c.chat_id IS NULL`).Scan(&report.DanglingMessages)
	if err != nil {
		return DiagnosticReport{}, &QueryError{Cause: err}
	}

	err = c.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT DISTINCT message_id, COUNT(chat_id) AS c
			FROM chat_message_join
			GROUP BY message_id
			HAVING c > 1
		)`).Scan(&report.MessagesInMultipleChats)
	if err != nil {
		return DiagnosticReport{}, &QueryError{Cause: err}
	}

	err = c.db.QueryRow(ctx, `SELECT COUNT(rowid) FROM message`).Scan(&report.TotalMessages)
	if err != nil {
		return DiagnosticReport{}, &QueryError{Cause: err}
	}

	return report, nil
}
