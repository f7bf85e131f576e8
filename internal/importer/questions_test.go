package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildQuestionsXLSX(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", cellA(i+1), &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func cellA(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}

func TestParseQuestionsXLSX(t *testing.T) {
	buf := buildQuestionsXLSX(t, [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
		{"2+2?", "3", "4", "5", "6", " b "},
		{"", "x", "x", "x", "x", "A"}, // без текста вопроса — пропуск
		{"Столица Таиланда?", "Бангкок", "Чиангмай", "Пхукет", "Кхонкэн", "A"},
	})

	qs, err := ParseQuestionsXLSX(buf)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "2+2?", qs[0].Text)
	assert.Equal(t, "B", qs[0].Correct) // буква нормализована
	assert.Equal(t, "4", qs[0].ChoiceB)
	assert.Equal(t, "Бангкок", qs[1].ChoiceA)
}

func TestParseQuestionsXLSXBadHeader(t *testing.T) {
	buf := buildQuestionsXLSX(t, [][]string{
		{"Вопрос", "A", "B", "C", "D", "Correct"},
		{"2+2?", "3", "4", "5", "6", "B"},
	})

	_, err := ParseQuestionsXLSX(buf)
	assert.ErrorContains(t, err, "header")
}

func TestParseQuestionsXLSXBadCorrectLetter(t *testing.T) {
	buf := buildQuestionsXLSX(t, [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
		{"2+2?", "3", "4", "5", "6", "E"},
	})

	_, err := ParseQuestionsXLSX(buf)
	assert.ErrorContains(t, err, "A..D")
}

func TestParseQuestionsXLSXEmpty(t *testing.T) {
	buf := buildQuestionsXLSX(t, [][]string{
		{"Question", "A", "B", "C", "D", "Correct"},
	})

	_, err := ParseQuestionsXLSX(buf)
	assert.ErrorContains(t, err, "no questions")
}

func TestParseQuestionsXLSXNotXLSX(t *testing.T) {
	_, err := ParseQuestionsXLSX(bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}
