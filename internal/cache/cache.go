package cache

import (
	"time"

	"github.com/rezonsoft/pamiatki/internal/models"
)

// CatalogCache определяет интерфейс кэша результатов сканирования каталога.
type CatalogCache interface {
	Get(location string) ([]*models.CatalogProduct, time.Time, bool)
	Set(location string, products []*models.CatalogProduct)
}
