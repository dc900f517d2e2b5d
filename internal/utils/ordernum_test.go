package utils

import "testing"

func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		want     string
	}{
		{"имя и фамилия", "Jan Kowalski", "JKO"},
		{"фамилией считается последнее слово", "Anna Maria Nowak", "ANO"},
		{"одно слово - первые три буквы", "Kowalski", "KOW"},
		{"короткое одно слово целиком", "Jo", "JO"},
		{"пустое имя", "", "XXX"},
		{"пробелы вокруг", "  Jan   Kowalski  ", "JKO"},
		{"нижний регистр поднимается", "jan kowalski", "JKO"},
		{"короткая фамилия", "Jan K", "JK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Initials(tt.fullName); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.fullName, got, tt.want)
			}
		})
	}
}

func TestFormatOrderNumber(t *testing.T) {
	if got := FormatOrderNumber(2024, 3, "JKO"); got != "2024/3/JKO" {
		t.Errorf("FormatOrderNumber = %q, want %q", got, "2024/3/JKO")
	}
	if got := FormatOrderNumber(2025, 1, InitialsPlaceholder); got != "2025/1/XXX" {
		t.Errorf("FormatOrderNumber = %q, want %q", got, "2025/1/XXX")
	}
}

func TestYearPrefix(t *testing.T) {
	if got := YearPrefix(2024); got != "2024/" {
		t.Errorf("YearPrefix(2024) = %q, want %q", got, "2024/")
	}
}
