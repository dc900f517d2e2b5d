package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSource описывает источник позиции заказа.
type ProductSource string

const (
	SourceMiejscowosci        ProductSource = "MIEJSCOWOSCI"
	SourceKlienciIndywidualni ProductSource = "KLIENCI_INDYWIDUALNI"
	SourceImienne             ProductSource = "IMIENNE"
	SourceHasla               ProductSource = "HASLA"
	SourceOkolicznosciowe     ProductSource = "OKOLICZNOSCIOWE"
)

// Product представляет товар из базового каталога.
type Product struct {
	ID             uuid.UUID       `db:"id"`
	Identifier     string          `db:"identifier"`
	IndexCode      string          `db:"index_code"`
	Slug           *string         `db:"slug"`
	Description    *string         `db:"description"`
	Price          decimal.Decimal `db:"price"`
	ImageURL       *string         `db:"image_url"`
	Category       string          `db:"category"`
	ProductionPath *string         `db:"production_path"`
	Dimensions     *string         `db:"dimensions"`
	IsActive       bool            `db:"is_active"`
	IsNew          bool            `db:"is_new"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// ProductRequest - запрос на создание или изменение товара.
type ProductRequest struct {
	Identifier     string   `json:"identifier"`
	IndexCode      string   `json:"index"`
	Slug           *string  `json:"slug,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Price          float64  `json:"price"`
	ImageURL       *string  `json:"imageUrl,omitempty"`
	Category       string   `json:"category"`
	ProductionPath *string  `json:"productionPath,omitempty"`
	Dimensions     *string  `json:"dimensions,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
	IsNew          *bool    `json:"new,omitempty"`
}

// ProductResponse DTO товара.
type ProductResponse struct {
	ID             uuid.UUID `json:"id"`
	Identifier     string    `json:"identifier"`
	IndexCode      string    `json:"index"`
	Slug           *string   `json:"slug,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	ImageURL       *string   `json:"imageUrl,omitempty"`
	Category       string    `json:"category"`
	ProductionPath *string   `json:"productionPath,omitempty"`
	Dimensions     *string   `json:"dimensions,omitempty"`
	IsActive       bool      `json:"isActive"`
	IsNew          bool      `json:"new"`
}

// ToResponse преобразует товар в DTO.
func (p *Product) ToResponse() *ProductResponse {
	price, _ := p.Price.Float64()
	return &ProductResponse{
		ID:             p.ID,
		Identifier:     p.Identifier,
		IndexCode:      p.IndexCode,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          price,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		ProductionPath: p.ProductionPath,
		Dimensions:     p.Dimensions,
		IsActive:       p.IsActive,
		IsNew:          p.IsNew,
	}
}
