package handlers

import (
	"fmt"
	"log/slog"

	"github.com/simplefi-dev/simplefi/classify"
)

// classifyUnmatched assigns patterns to every unclassified transaction,
// trying the most-used patterns first. Returns the number of newly
// classified transactions.
func classifyUnmatched() (int, error) {
	rows, err := DB.Query(`SELECT p.id, p.pattern, COUNT(t.id) AS matches
		FROM patterns p
		LEFT JOIN transactions t ON t.pattern_id = p.id
		GROUP BY p.id
		ORDER BY matches DESC, p.id`)
	if err != nil {
		return 0, fmt.Errorf("loading patterns: %w", err)
	}
	defer rows.Close()

	var rules []classify.Rule
	for rows.Next() {
		var id, matches int
		var expr string
		if err := rows.Scan(&id, &expr, &matches); err != nil {
			return 0, fmt.Errorf("scanning pattern: %w", err)
		}
		rule, err := classify.NewRule(id, expr)
		if err != nil {
			// Stored patterns are validated on write; tolerate anyway.
			slog.Warn("skipping invalid pattern", "id", id, "error", err)
			continue
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(rules) == 0 {
		return 0, nil
	}

	unmatched, err := DB.Query("SELECT id, description FROM transactions WHERE pattern_id IS NULL")
	if err != nil {
		return 0, fmt.Errorf("loading unclassified transactions: %w", err)
	}
	defer unmatched.Close()

	assignments := make(map[int]int)
	for unmatched.Next() {
		var id int
		var desc string
		if err := unmatched.Scan(&id, &desc); err != nil {
			return 0, fmt.Errorf("scanning transaction: %w", err)
		}
		if rule := classify.First(rules, desc); rule != nil {
			assignments[id] = rule.ID
		}
	}
	if err := unmatched.Err(); err != nil {
		return 0, err
	}

	for txnID, patternID := range assignments {
		if _, err := DB.Exec("UPDATE transactions SET pattern_id = ? WHERE id = ?", patternID, txnID); err != nil {
			return 0, fmt.Errorf("assigning pattern: %w", err)
		}
	}
	return len(assignments), nil
}
