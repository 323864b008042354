package editor

import "strings"

// MaxRandomCount returns the largest legal random draw for a pool of n
// non-compulsory questions.
func MaxRandomCount(nonCompulsory int) int {
	max := nonCompulsory - 1
	if max < 1 {
		max = 1
	}
	return max
}

// defaultRandomCount is the draw size chosen when random selection is first
// enabled for a pool of n non-compulsory questions.
func defaultRandomCount(nonCompulsory int) int {
	if nonCompulsory == 2 {
		return 1
	}
	count := nonCompulsory / 2
	if count > nonCompulsory-1 {
		count = nonCompulsory - 1
	}
	if count < 1 {
		count = 1
	}
	return count
}

// SetRandomEnabled turns random selection on or off for a section. Enabling
// requires at least 2 non-compulsory questions; disabling converts every
// remaining non-compulsory question to compulsory.
func SetRandomEnabled(section *Section, enabled bool) error {
	if enabled {
		n := nonCompulsoryCount(section)
		if n < 2 {
			return NewValidationError("section %q needs at least 2 non-compulsory questions to enable random selection", section.Title)
		}
		section.Random.Enabled = true
		section.Random.Count = defaultRandomCount(n)
		section.CountValid = true
		return nil
	}

	section.Random.Enabled = false
	section.Random.Count = 0
	section.CountValid = true
	convertOptionalToCompulsory(section)
	return nil
}

// SetRandomCount updates the draw size, clamping into [0, max]. A clamped
// value of 0 is stored but flagged invalid so the UI can surface it.
func SetRandomCount(section *Section, requested int) {
	max := MaxRandomCount(nonCompulsoryCount(section))
	clamped := requested
	if clamped < 0 {
		clamped = 0
	}
	if clamped > max {
		clamped = max
	}
	section.Random.Count = clamped
	section.CountValid = clamped > 0 && clamped <= max
}

// ReconcileRandomSettings re-establishes the random selection invariants
// after a question mutation: random selection is forced on once the pool
// reaches 2 and forced off (converting the leftover optionals) when it drops
// below 2. A never-enabled section with exactly one non-compulsory question
// is left alone and caught by full validation instead.
func ReconcileRandomSettings(section *Section) {
	n := nonCompulsoryCount(section)

	if section.Random.Enabled {
		if n < 2 {
			section.Random.Enabled = false
			section.Random.Count = 0
			section.CountValid = true
			convertOptionalToCompulsory(section)
			return
		}
		max := MaxRandomCount(n)
		if section.Random.Count < 1 {
			section.Random.Count = 1
		}
		if section.Random.Count > max {
			section.Random.Count = max
		}
		section.CountValid = true
		return
	}

	if n >= 2 {
		section.Random.Enabled = true
		section.Random.Count = defaultRandomCount(n)
		section.CountValid = true
	}
}

// convertOptionalToCompulsory flips every non-compulsory question to
// compulsory, going through the tracker so baselines and modification flags
// stay correct.
func convertOptionalToCompulsory(section *Section) {
	for _, q := range section.Questions {
		if !q.IsCompulsory {
			SetQuestionCompulsory(q, true)
		}
	}
}

func nonCompulsoryCount(section *Section) int {
	count := 0
	for _, q := range section.Questions {
		if !q.IsCompulsory {
			count++
		}
	}
	return count
}

// ValidateDocument runs the pre-save checks. The first violation found stops
// validation and is returned as a single user-facing error.
func ValidateDocument(doc *Document) error {
	if len(doc.Sections) == 0 {
		return NewValidationError("add at least one section before saving")
	}

	for i, section := range doc.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return NewValidationError("section %d needs a title", i+1)
		}
		if len(section.Questions) == 0 {
			return NewValidationError("section %q has no questions", section.Title)
		}
		for j, q := range section.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return NewValidationError("question %d in section %q is empty", j+1, section.Title)
			}
		}

		n := nonCompulsoryCount(section)
		if n > 0 && !section.Random.Enabled {
			return NewValidationError("section %q has non-compulsory questions; enable random selection or make them compulsory", section.Title)
		}
		if section.Random.Enabled {
			if n < 2 {
				return NewValidationError("section %q needs at least 2 non-compulsory questions for random selection", section.Title)
			}
			max := MaxRandomCount(n)
			if section.Random.Count < 1 || section.Random.Count > max {
				return NewValidationError("section %q has a random question count outside 1 to %d", section.Title, max)
			}
		}
	}

	return nil
}
