package utils

import "testing"

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gdansk", "gdansk"},
		{"Nowy Sacz", "nowy_sacz"},
		{"Kołobrzeg", "kołobrzeg"},
		{"GDAŃSK", "gdańsk"},
	}

	for _, tt := range tests {
		if got := NormalizeLocation(tt.in); got != tt.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsJPEG(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"gdansk_kubek.jpg", true},
		{"gdansk_kubek.JPG", true},
		{"gdansk_kubek.jpeg", true},
		{"gdansk_kubek.JPeG", true},
		{"gdansk_kubek.png", false},
		{"gdansk_kubek", false},
		{"jpg", false},
	}

	for _, tt := range tests {
		if got := IsJPEG(tt.in); got != tt.want {
			t.Errorf("IsJPEG(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name         string
		fileName     string
		location     string
		want         string
		wantFallback bool
	}{
		{"обычный файл", "gdansk_kubek.jpg", "Gdansk", "kubek", false},
		{"несколько подчёркиваний", "gdansk_kubek_morski.jpg", "Gdansk", "kubek_morski", false},
		{"локация с пробелом", "nowy_sacz_magnes.jpg", "Nowy Sacz", "magnes", false},
		{"префикс не совпадает", "random.jpg", "Gdansk", "random", true},
		{"регистр префикса не важен", "Gdansk_brelok.jpg", "Gdansk", "brelok", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := ExtractIdentifier(tt.fileName, tt.location)
			if got != tt.want {
				t.Errorf("identifier = %q, want %q", got, tt.want)
			}
			if fallback != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fallback, tt.wantFallback)
			}
		})
	}
}

func TestProductDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kubek", "Kubek"},
		{"kubek_morski", "Kubek Morski"},
		{"otwieracz_do_butelek", "Otwieracz Do Butelek"},
	}

	for _, tt := range tests {
		if got := ProductDisplayName(tt.in); got != tt.want {
			t.Errorf("ProductDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Идентификатор, извлечённый из ключа, должен восстанавливать этот же ключ.
func TestProductKeyRoundTrip(t *testing.T) {
	const baseFolder = "PROJEKTY MIEJSCOWOŚCI"

	key := ProductKey(baseFolder, "Gdansk", "kubek")
	want := "PROJEKTY MIEJSCOWOŚCI/Gdansk/gdansk_kubek.jpg"
	if key != want {
		t.Fatalf("ProductKey = %q, want %q", key, want)
	}

	fileName := BaseName(key)
	identifier, fallback := ExtractIdentifier(fileName, "Gdansk")
	if fallback {
		t.Fatal("unexpected fallback")
	}
	if identifier != "kubek" {
		t.Fatalf("identifier = %q, want %q", identifier, "kubek")
	}
	if rebuilt := ProductKey(baseFolder, "Gdansk", identifier); rebuilt != key {
		t.Fatalf("rebuilt key = %q, want %q", rebuilt, key)
	}
}
