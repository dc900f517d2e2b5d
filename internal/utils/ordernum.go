package utils

import (
	"fmt"
	"strings"
)

// InitialsPlaceholder используется, когда имя пользователя не задано.
const InitialsPlaceholder = "XXX"

// Initials строит трёхбуквенный суффикс номера заказа из имени пользователя:
// первая буква имени плюс две первые буквы фамилии. Для имени из одного слова
// берутся первые три символа.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return InitialsPlaceholder
	}

	parts := strings.Fields(name)
	if len(parts) >= 2 {
		first := []rune(parts[0])
		last := []rune(parts[len(parts)-1])
		if len(last) > 2 {
			last = last[:2]
		}
		return strings.ToUpper(string(first[:1]) + string(last))
	}

	single := []rune(parts[0])
	if len(single) > 3 {
		single = single[:3]
	}
	return strings.ToUpper(string(single))
}

// FormatOrderNumber форматирует номер заказа вида YYYY/seq/initials.
func FormatOrderNumber(year, sequence int, initials string) string {
	if initials == "" {
		initials = InitialsPlaceholder
	}
	return fmt.Sprintf("%d/%d/%s", year, sequence, initials)
}

// YearPrefix возвращает префикс номеров заказов заданного года.
func YearPrefix(year int) string {
	return fmt.Sprintf("%d/", year)
}
