package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/editor"
)

const sheetName = "Interview Questions"

// QuestionSetWorkbook renders the current document as an Excel workbook for
// recruiters who review question sets offline.
func QuestionSetWorkbook(view *editor.DocumentView) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"Section", "Random selection", "Question", "Time limit (s)", "Compulsory", "AI generated", "Modified"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, "A1", endCell, headerStyle)
	}

	row := 2
	for _, section := range view.Sections {
		random := "off"
		if section.Random.Enabled {
			random = fmt.Sprintf("%d of %d optional", section.Random.Count, optionalCount(section))
		}
		for _, q := range section.Questions {
			values := []interface{}{
				section.Title,
				random,
				q.Text,
				q.TimeLimit,
				q.IsCompulsory,
				q.IsAIGenerated,
				q.IsAIModified,
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheetName, cell, value); err != nil {
					return nil, fmt.Errorf("failed to write row %d: %w", row, err)
				}
			}
			row++
		}
	}

	summaryCell, _ := excelize.CoordinatesToCellName(1, row+1)
	budget := view.TimeBudget
	summary := fmt.Sprintf("%d questions, %d asked per interview, estimated %dm %ds",
		budget.TotalQuestionCount, budget.EffectiveQuestionCount, budget.Minutes, budget.Seconds)
	if err := f.SetCellValue(sheetName, summaryCell, summary); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "C", "C", 64)

	return f, nil
}

func optionalCount(section editor.SectionView) int {
	count := 0
	for _, q := range section.Questions {
		if !q.IsCompulsory {
			count++
		}
	}
	return count
}
