package identity

import "strings"

// IDLength — длина канонического кода студента.
const IDLength = 10

// Level — уровень обучения. Выводится либо из кода студента (4-я цифра),
// либо из кода предмета (первая цифра) — это разные источники, см. LevelFromStudentID
// и LevelFromSubjectCode.
type Level string

const (
	Primary        Level = "primary"
	LowerSecondary Level = "lower-secondary"
	UpperSecondary Level = "upper-secondary"
	Unknown        Level = "unknown"
)

// Clean убирает из сырого значения артефакт численного приведения ".0"
// и все нецифровые символы. Длина не трогается — подходит для номеров
// карт и прочих кодов произвольной длины.
func Clean(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ".0", "")
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize приводит сырой идентификатор студента к каноническому виду:
// очистка как в Clean, при избыточной длине остаются последние IDLength
// цифр (хвост с контрольной цифрой сохраняется). Пустой результат
// означает «не найдено», а не совпадение с чем угодно.
func Normalize(raw string) string {
	s := Clean(raw)
	if len(s) > IDLength {
		s = s[len(s)-IDLength:]
	}
	return s
}

// LevelFromStudentID — уровень по 4-й цифре канонического кода студента.
func LevelFromStudentID(raw string) Level {
	id := Normalize(raw)
	if len(id) < 4 {
		return Unknown
	}
	return levelDigit(rune(id[3]))
}

// LevelFromSubjectCode — уровень по первой цифре в коде предмета.
// Используется отчётом посещаемости; источник отличается от уровня студента.
func LevelFromSubjectCode(code string) Level {
	for _, r := range code {
		if r >= '0' && r <= '9' {
			return levelDigit(r)
		}
	}
	return Unknown
}

func levelDigit(r rune) Level {
	switch r {
	case '1':
		return Primary
	case '2':
		return LowerSecondary
	case '3':
		return UpperSecondary
	default:
		return Unknown
	}
}
