package identity

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234567890123", "4567890123"}, // 13 цифр → последние 10
		{"", ""},
		{"12-34.0", "1234"}, // артефакт ".0" убирается до чистки
		{"6512345678", "6512345678"},
		{"  65-1234-5678  ", "6512345678"},
		{"abc", ""},
		{"1.0", "1"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanKeepsFullLength(t *testing.T) {
	// номера карт длиннее кода студента не усекаются
	cases := []struct {
		in   string
		want string
	}{
		{"1-2345-67890-12-3", "1234567890123"},
		{"1234567890123.0", "1234567890123"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Errorf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeKeepsRightmostDigits(t *testing.T) {
	// национальный ID длиннее кода студента — берём хвост
	if got := Normalize("99-9912345678901"); got != "2345678901" {
		t.Fatalf("ожидали хвост из 10 цифр, получили %q", got)
	}
}

func TestLevelFromStudentID(t *testing.T) {
	cases := []struct {
		id   string
		want Level
	}{
		{"6511234567", Primary},
		{"6522234567", LowerSecondary},
		{"6533234567", UpperSecondary},
		{"6599234567", Unknown},
		{"12", Unknown},
		{"", Unknown},
	}
	for _, c := range cases {
		if got := LevelFromStudentID(c.id); got != c.want {
			t.Errorf("LevelFromStudentID(%q) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestLevelFromSubjectCode(t *testing.T) {
	cases := []struct {
		code string
		want Level
	}{
		{"MATH1", Primary},
		{"ทร21001", LowerSecondary},
		{"SC31001", UpperSecondary},
		{"ART", Unknown},
		{"X9Y1", Unknown}, // первая найденная цифра — 9
	}
	for _, c := range cases {
		if got := LevelFromSubjectCode(c.code); got != c.want {
			t.Errorf("LevelFromSubjectCode(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}
