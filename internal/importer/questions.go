package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-exam-portal/internal/models"
)

var questionHeader = []string{"Question", "A", "B", "C", "D", "Correct"}

// ParseQuestionsXLSX читает банк вопросов с первого листа. Шапка обязана
// совпадать с questionHeader, иначе файл отклоняется целиком. Строки без
// текста вопроса пропускаются, правильная буква нормализуется к A..D.
func ParseQuestionsXLSX(r io.Reader) ([]models.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	var out []models.Question
	for i, row := range rows[1:] {
		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		text := get(0)
		if text == "" {
			continue
		}
		correct := strings.ToUpper(get(5))
		switch correct {
		case "A", "B", "C", "D":
		default:
			return nil, fmt.Errorf("row %d: correct answer %q is not one of A..D", i+2, get(5))
		}
		out = append(out, models.Question{
			Text:    text,
			ChoiceA: get(1),
			ChoiceB: get(2),
			ChoiceC: get(3),
			ChoiceD: get(4),
			Correct: correct,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no questions found")
	}
	return out, nil
}

func checkHeader(row []string) error {
	for i, want := range questionHeader {
		var got string
		if i < len(row) {
			got = strings.TrimSpace(row[i])
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("header column %d: want %q, got %q", i+1, want, got)
		}
	}
	return nil
}
