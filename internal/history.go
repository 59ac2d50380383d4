package internal

// ExpandHistory converts stored history entries into Turn values shaped
// exactly like live-streamed turns: one Turn per user/answer pair, answer
// text in the final-answer slot, no reasoning sections (the backend does
// not retain them).
func ExpandHistory(sessionID string, entries []HistoryTurn) []Turn {
	if len(entries) == 0 {
		return nil
	}

	turns := make([]Turn, 0, len(entries))
	for _, entry := range entries {
		if entry.UserQuery == "" && entry.Answer == "" {
			LogDebug("skipping empty history entry for session %s", sessionID)
			continue
		}
		turns = append(turns, Turn{
			SessionID:   sessionID,
			UserText:    entry.UserQuery,
			FinalAnswer: entry.Answer,
		})
	}
	return turns
}

// ReplayHistory folds a stored exchange through an accumulator, producing
// the same Turn an equivalent live stream would have. Used to verify the
// two paths stay in shape agreement and by callers that want snapshots
// while restoring.
func ReplayHistory(entry HistoryTurn) Turn {
	acc := NewAccumulator(entry.UserQuery)
	if entry.Answer != "" {
		acc.Apply(FinalAnswerEvent{Text: entry.Answer})
	}
	return acc.Snapshot()
}
