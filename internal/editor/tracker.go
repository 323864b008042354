package editor

// Modification tracking compares a question against its baseline triple
// (originalText, originalTimeLimit, originalCompulsory). The baseline is
// fixed at generation time for AI questions and captured field by field on
// first edit for manual ones; a nil originalText marks a question that has
// never been saved and is therefore exempt from tracking.

// UpdateModificationStatus recomputes IsAIModified from the baseline. A
// question without a text baseline is brand new and never flagged.
func UpdateModificationStatus(q *Question) {
	if q.OriginalText == nil {
		return
	}
	textMatches := q.Text == *q.OriginalText
	timeLimitMatches := q.OriginalTimeLimit == nil || q.TimeLimit == *q.OriginalTimeLimit
	compulsoryMatches := q.OriginalCompulsory == nil || q.IsCompulsory == *q.OriginalCompulsory
	q.IsAIModified = !(textMatches && timeLimitMatches && compulsoryMatches)
}

// SetQuestionText replaces the question text. The text baseline is never
// captured lazily: it is fixed at AI generation or backfilled on save.
func SetQuestionText(q *Question, text string) {
	q.Text = text
	UpdateModificationStatus(q)
}

// SetQuestionTimeLimit changes the answering time, capturing the previous
// value as the baseline on a manual question's first time edit.
func SetQuestionTimeLimit(q *Question, timeLimit int) {
	if !q.IsAIGenerated && q.OriginalTimeLimit == nil {
		previous := q.TimeLimit
		q.OriginalTimeLimit = &previous
	}
	q.TimeLimit = timeLimit
	UpdateModificationStatus(q)
}

// SetQuestionCompulsory toggles the compulsory flag, capturing the previous
// value as the baseline on a manual question's first toggle.
func SetQuestionCompulsory(q *Question, compulsory bool) {
	if !q.IsAIGenerated && q.OriginalCompulsory == nil {
		previous := q.IsCompulsory
		q.OriginalCompulsory = &previous
	}
	q.IsCompulsory = compulsory
	UpdateModificationStatus(q)
}

// BackfillBaselines establishes the post-save diffing reference point for
// every question in the document. Manual questions re-baseline to their
// just-saved state, which clears their modification flags; AI questions keep
// the baseline fixed at generation so edits stay flagged across saves.
func BackfillBaselines(doc *Document) {
	for _, section := range doc.Sections {
		for _, q := range section.Questions {
			if q.IsAIGenerated {
				if q.OriginalText == nil {
					text := q.Text
					q.OriginalText = &text
				}
				if q.OriginalTimeLimit == nil {
					timeLimit := q.TimeLimit
					q.OriginalTimeLimit = &timeLimit
				}
				if q.OriginalCompulsory == nil {
					compulsory := q.IsCompulsory
					q.OriginalCompulsory = &compulsory
				}
				UpdateModificationStatus(q)
				continue
			}

			text := q.Text
			timeLimit := q.TimeLimit
			compulsory := q.IsCompulsory
			q.OriginalText = &text
			q.OriginalTimeLimit = &timeLimit
			q.OriginalCompulsory = &compulsory
			q.IsAIModified = false
		}
	}
}
