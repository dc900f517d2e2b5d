package utils

import (
	"regexp"
	"strings"
)

var jpegRe = regexp.MustCompile(`(?i)\.jpe?g$`)

// NormalizeLocation нормализует название локации для использования в ключах
// хранилища: нижний регистр, пробелы заменяются подчёркиваниями. Польские
// диакритические буквы проходят без изменений.
func NormalizeLocation(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// IsJPEG проверяет расширение файла (.jpg/.jpeg, без учёта регистра).
func IsJPEG(fileName string) bool {
	return jpegRe.MatchString(fileName)
}

// StripExtension убирает расширение файла.
func StripExtension(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}

// BaseName возвращает последний сегмент ключа хранилища.
func BaseName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// ExtractIdentifier извлекает идентификатор товара из имени файла, отбрасывая
// префикс "<нормализованная локация>_". Если префикс не совпадает, возвращается
// всё имя без расширения и fallback=true - вызывающая сторона логирует
// предупреждение, но обработку не прерывает.
func ExtractIdentifier(fileName, locationName string) (identifier string, fallback bool) {
	baseName := StripExtension(fileName)
	expectedPrefix := NormalizeLocation(locationName) + "_"

	baseNameLower := strings.ToLower(baseName)
	if !strings.HasPrefix(baseNameLower, expectedPrefix) {
		return baseName, true
	}

	// Срез по байтовому смещению корректен, пока ToLower сохраняет длину
	// в байтах для букв имён локаций (латиница и польские диакритики).
	return baseName[len(expectedPrefix):], false
}

// ProductDisplayName превращает идентификатор в читаемое название товара:
// подчёркивания заменяются пробелами, каждое слово с заглавной буквы.
func ProductDisplayName(identifier string) string {
	parts := strings.Split(identifier, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		parts[i] = strings.ToUpper(string(runes[:1])) + string(runes[1:])
	}
	return strings.Join(parts, " ")
}

// ProductKey собирает ключ файла товара в хранилище:
// <базовая папка>/<локация>/<нормализованная локация>_<идентификатор>.jpg.
func ProductKey(baseFolder, locationName, identifier string) string {
	return baseFolder + "/" + locationName + "/" + NormalizeLocation(locationName) + "_" + identifier + ".jpg"
}
