package editor

import (
	"errors"
	"testing"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/models"
)

func TestDocumentSections(t *testing.T) {
	t.Run("add section trims and expands", func(t *testing.T) {
		doc := NewDocument("job-1", "cand-1")

		section, err := doc.AddSection("  Technical  ")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if section.Title != "Technical" {
			t.Errorf("expected trimmed title, got %q", section.Title)
		}
		if !doc.IsExpanded(section.Key) {
			t.Error("new section should start expanded")
		}
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		doc := NewDocument("job-1", "cand-1")
		if _, err := doc.AddSection("   "); err == nil {
			t.Fatal("expected error for blank title")
		}
	})

	t.Run("removal of a populated section needs confirmation", func(t *testing.T) {
		doc := NewDocument("job-1", "cand-1")
		section, _ := doc.AddSection("Technical")
		if _, err := doc.AddQuestion(section.Key); err != nil {
			t.Fatalf("add question failed: %v", err)
		}

		if err := doc.RemoveSection(section.Key, false); !errors.Is(err, ErrConfirmationRequired) {
			t.Fatalf("expected ErrConfirmationRequired, got %v", err)
		}
		if err := doc.RemoveSection(section.Key, true); err != nil {
			t.Fatalf("confirmed removal failed: %v", err)
		}
		if len(doc.Sections) != 0 {
			t.Error("section should be gone")
		}
	})

	t.Run("empty section removes without confirmation", func(t *testing.T) {
		doc := NewDocument("job-1", "cand-1")
		section, _ := doc.AddSection("Technical")

		if err := doc.RemoveSection(section.Key, false); err != nil {
			t.Fatalf("removal failed: %v", err)
		}
	})
}

func TestMoveSection(t *testing.T) {
	doc := NewDocument("job-1", "cand-1")
	first, _ := doc.AddSection("First")
	second, _ := doc.AddSection("Second")
	third, _ := doc.AddSection("Third")

	if err := doc.MoveSection(second.Key, "up"); err != nil {
		t.Fatalf("move up failed: %v", err)
	}
	if doc.Sections[0].Key != second.Key || doc.Sections[1].Key != first.Key {
		t.Error("expected second section moved to the front")
	}

	// Boundary moves are no-ops.
	if err := doc.MoveSection(second.Key, "up"); err != nil {
		t.Fatalf("boundary move failed: %v", err)
	}
	if doc.Sections[0].Key != second.Key {
		t.Error("top section should stay put on a further move up")
	}

	if err := doc.MoveSection(third.Key, "down"); err != nil {
		t.Fatalf("boundary move failed: %v", err)
	}
	if doc.Sections[2].Key != third.Key {
		t.Error("bottom section should stay put on a further move down")
	}

	if err := doc.MoveSection(first.Key, "sideways"); err == nil {
		t.Error("expected error for an unknown direction")
	}
}

func TestExpansionSurvivesReorderAndSave(t *testing.T) {
	doc := NewDocument("job-1", "cand-1")
	first, _ := doc.AddSection("First")
	second, _ := doc.AddSection("Second")
	doc.SetExpanded(first.Key, false)

	if err := doc.MoveSection(second.Key, "up"); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if doc.IsExpanded(first.Key) {
		t.Error("collapsed state should follow the section across a reorder")
	}
	if !doc.IsExpanded(second.Key) {
		t.Error("expanded state should follow the section across a reorder")
	}

	// Assigning backend identifiers must not disturb the expansion state.
	assignIdentifiers(doc)
	if doc.IsExpanded(first.Key) || !doc.IsExpanded(second.Key) {
		t.Error("expansion state should be independent of identifier assignment")
	}
}

func TestDocumentCloneAndEqual(t *testing.T) {
	set := &models.QuestionSet{
		QuestionSetID: "qs-1",
		CandidateID:   "cand-1",
		JobID:         "job-1",
		Sections: []*models.Section{{
			SectionID: "sect-1",
			Title:     "Technical",
			Questions: []*models.Question{
				{QuestionID: "ques-1", Text: "first question", TimeLimit: 60, IsCompulsory: true},
			},
		}},
	}

	doc := FromQuestionSet(set)
	clone := doc.Clone()

	if !doc.Equal(clone) {
		t.Fatal("clone should equal its source")
	}

	// Mutating the clone must not leak into the original.
	clone.Sections[0].Questions[0].Text = "changed"
	if doc.Sections[0].Questions[0].Text != "first question" {
		t.Error("clone mutation leaked into the original")
	}
	if doc.Equal(clone) {
		t.Error("documents with different question text should not be equal")
	}

	// Expansion state is presentation only and never affects equality.
	other := doc.Clone()
	other.SetExpanded(other.Sections[0].Key, true)
	if !doc.Equal(other) {
		t.Error("expansion state must not affect document equality")
	}
}

func TestAddQuestionDefaults(t *testing.T) {
	doc := NewDocument("job-1", "cand-1")
	section, _ := doc.AddSection("Technical")

	question, err := doc.AddQuestion(section.Key)
	if err != nil {
		t.Fatalf("add question failed: %v", err)
	}
	if question.TimeLimit != DefaultTimeLimit {
		t.Errorf("expected default time limit %d, got %d", DefaultTimeLimit, question.TimeLimit)
	}
	if !question.IsCompulsory {
		t.Error("new questions start compulsory")
	}
	if question.OriginalText != nil {
		t.Error("new questions have no baseline")
	}
}
