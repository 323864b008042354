package editor

import "math"

// MinInterviewMinutes is the shortest interview a question set may produce.
const MinInterviewMinutes = 5

// TimeBudget summarizes how long the configured interview will take once
// each section's random draw is applied.
type TimeBudget struct {
	TotalSeconds           int `json:"totalSeconds"`
	Minutes                int `json:"minutes"`
	Seconds                int `json:"seconds"`
	TotalQuestionCount     int `json:"totalQuestionCount"`
	EffectiveQuestionCount int `json:"effectiveQuestionCount"`
}

// CalculateTimeBudget derives the interview duration from the document.
// Compulsory questions contribute their full time. When random selection is
// enabled, the non-compulsory pool contributes its rounded average answering
// time once per drawn question; a disabled section contributes compulsory
// time only.
func CalculateTimeBudget(doc *Document) TimeBudget {
	budget := TimeBudget{}

	for _, section := range doc.Sections {
		compulsoryTime := 0
		nonCompulsoryTime := 0
		nonCompulsory := 0

		for _, q := range section.Questions {
			if q.IsCompulsory {
				compulsoryTime += q.TimeLimit
			} else {
				nonCompulsoryTime += q.TimeLimit
				nonCompulsory++
			}
		}

		budget.TotalQuestionCount += len(section.Questions)
		budget.TotalSeconds += compulsoryTime

		if section.Random.Enabled {
			budget.EffectiveQuestionCount += (len(section.Questions) - nonCompulsory) + section.Random.Count
			if nonCompulsory > 0 {
				average := int(math.Round(float64(nonCompulsoryTime) / float64(nonCompulsory)))
				budget.TotalSeconds += average * section.Random.Count
			}
		} else {
			budget.EffectiveQuestionCount += len(section.Questions)
		}
	}

	budget.Minutes = budget.TotalSeconds / 60
	budget.Seconds = budget.TotalSeconds % 60
	return budget
}

// RoundedMinutes returns the duration in whole minutes, rounded up.
func (b TimeBudget) RoundedMinutes() int {
	minutes := b.Minutes
	if b.Seconds > 0 {
		minutes++
	}
	return minutes
}

// MeetsMinimum reports whether the interview clears the 5 minute floor.
func (b TimeBudget) MeetsMinimum() bool {
	return b.RoundedMinutes() >= MinInterviewMinutes
}
