package models

// CatalogProduct представляет товар, производный от файла в объектном хранилище.
// Такие товары не хранятся в базе - идентификатор извлекается из имени файла.
type CatalogProduct struct {
	ID         string  `json:"id"`
	Identifier string  `json:"identifier"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"imageUrl"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	IsActive   bool    `json:"isActive"`
}

// CatalogResponse - ответ каталога для одной локации.
type CatalogResponse struct {
	Success   bool              `json:"success"`
	Location  string            `json:"location"`
	Products  []*CatalogProduct `json:"products"`
	Count     int               `json:"count"`
	Source    string            `json:"source"`
	CachedAt  string            `json:"cachedAt,omitempty"`
	ScannedAt string            `json:"scannedAt,omitempty"`
}

// Location представляет локацию с доступными идентификаторами товаров.
type Location struct {
	Name               string   `json:"name"`
	ProductIdentifiers []string `json:"productIdentifiers"`
}

// LocationsResponse - ответ со списком локаций.
type LocationsResponse struct {
	Success   bool        `json:"success"`
	Locations []*Location `json:"locations"`
	Source    string      `json:"source"`
}
