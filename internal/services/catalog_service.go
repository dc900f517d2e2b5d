package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/rezonsoft/pamiatki/internal/cache"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/r2"
	"github.com/rezonsoft/pamiatki/internal/utils"
	"golang.org/x/sync/errgroup"
)

var ErrStorageUnavailable = errors.New("object storage is not configured")

// ErrObjectExists возвращается при попытке загрузки по занятому ключу
// без флага перезаписи.
var ErrObjectExists = errors.New("object already exists")

// Источники данных в ответе каталога.
const (
	SourceR2       = "r2"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// defaultCatalogPrice - цена по умолчанию для товаров, производных от
// файлов хранилища. Реальная цена назначается в базовом каталоге.
const defaultCatalogPrice = 25.00

// catalogCategory - категория всех товаров из папки локаций.
const catalogCategory = "PAMIĄTKI"

// CatalogService определяет интерфейс обнаружения товаров в объектном хранилище.
type CatalogService interface {
	Discover(ctx context.Context, location string, refresh bool) (*models.CatalogResponse, error)
	ListLocations(ctx context.Context) (*models.LocationsResponse, error)
	Upload(ctx context.Context, key string, body []byte, contentType string, overwrite bool) (string, error)
	ImageURL(key string) string
}

// CatalogServiceImpl реализует CatalogService.
type CatalogServiceImpl struct {
	storage      r2.ObjectStorage
	cache        cache.CatalogCache
	baseFolder   string
	publicDomain string
	now          func() time.Time
}

// NewCatalogService создаёт новый сервис каталога. storage может быть nil,
// если объектное хранилище не сконфигурировано - тогда обнаружение
// деградирует до статического списка локаций.
func NewCatalogService(storage r2.ObjectStorage, catalogCache cache.CatalogCache, baseFolder, publicDomain string) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		storage:      storage,
		cache:        catalogCache,
		baseFolder:   baseFolder,
		publicDomain: publicDomain,
		now:          time.Now,
	}
}

// Discover возвращает товары локации, извлекая идентификаторы из имён
// файлов в хранилище. Результат кэшируется на время жизни кэша;
// refresh=true принудительно пересканирует и перезаписывает кэш.
func (s *CatalogServiceImpl) Discover(ctx context.Context, location string, refresh bool) (*models.CatalogResponse, error) {
	if !refresh {
		if products, cachedAt, ok := s.cache.Get(location); ok {
			return &models.CatalogResponse{
				Success:  true,
				Location: location,
				Products: products,
				Count:    len(products),
				Source:   SourceCache,
				CachedAt: cachedAt.Format(time.RFC3339),
			}, nil
		}
	}

	products, err := s.scanLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	s.cache.Set(location, products)

	return &models.CatalogResponse{
		Success:   true,
		Location:  location,
		Products:  products,
		Count:     len(products),
		Source:    SourceR2,
		ScannedAt: s.now().Format(time.RFC3339),
	}, nil
}

// scanLocation сканирует папку локации и собирает товары, отсортированные
// по названию.
func (s *CatalogServiceImpl) scanLocation(ctx context.Context, location string) ([]*models.CatalogProduct, error) {
	identifiers, err := s.scanIdentifiers(ctx, location)
	if err != nil {
		return nil, err
	}

	locationLower := strings.ToLower(location)
	products := make([]*models.CatalogProduct, 0, len(identifiers))
	for _, identifier := range identifiers {
		products = append(products, &models.CatalogProduct{
			ID:         fmt.Sprintf("r2_%s_%s", locationLower, identifier),
			Identifier: identifier,
			Name:       utils.ProductDisplayName(identifier),
			ImageURL:   s.ImageURL(utils.ProductKey(s.baseFolder, location, identifier)),
			Category:   catalogCategory,
			Price:      defaultCatalogPrice,
			IsActive:   true,
		})
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// scanIdentifiers извлекает идентификаторы товаров из имён файлов
// в папке локации. Дубликаты не схлопываются.
func (s *CatalogServiceImpl) scanIdentifiers(ctx context.Context, location string) ([]string, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	prefix := s.baseFolder + "/" + location + "/"
	keys, err := s.storage.ListKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan location %q: %w", location, err)
	}

	var identifiers []string
	for _, key := range keys {
		fileName := utils.BaseName(key)
		if !utils.IsJPEG(fileName) {
			continue
		}

		identifier, fallback := utils.ExtractIdentifier(fileName, location)
		if fallback {
			log.Printf("catalog: file %q does not match prefix for location %q, using base name", fileName, location)
		}
		// Пустой идентификатор или идентификатор, совпадающий с именем
		// файла (сравнение в нижнем регистре), означает не-товарный файл.
		if identifier == "" || strings.ToLower(identifier) == strings.ToLower(utils.StripExtension(fileName)) {
			continue
		}

		identifiers = append(identifiers, identifier)
	}

	return identifiers, nil
}

// ListLocations возвращает локации с идентификаторами товаров. Локации
// сканируются параллельно; ошибка одной локации не прерывает остальные.
// При недоступном хранилище или пустом списке возвращается статический
// запасной список.
func (s *CatalogServiceImpl) ListLocations(ctx context.Context) (*models.LocationsResponse, error) {
	if s.storage == nil {
		return fallbackLocations(), nil
	}

	folders, err := s.storage.ListFolders(ctx, s.baseFolder)
	if err != nil {
		log.Printf("catalog: failed to list locations, serving fallback: %v", err)
		return fallbackLocations(), nil
	}
	if len(folders) == 0 {
		return fallbackLocations(), nil
	}

	locations := make([]*models.Location, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			identifiers, err := s.scanIdentifiers(gctx, folder)
			if err != nil {
				// Ошибка одной локации даёт пустой список, остальные
				// локации всё равно возвращаются.
				log.Printf("catalog: failed to scan location %q: %v", folder, err)
				identifiers = nil
			}
			sort.Strings(identifiers)
			if identifiers == nil {
				identifiers = []string{}
			}
			locations[i] = &models.Location{
				Name:               folder,
				ProductIdentifiers: identifiers,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fallbackLocations(), nil
	}

	return &models.LocationsResponse{
		Success:   true,
		Locations: locations,
		Source:    SourceR2,
	}, nil
}

// Upload сохраняет изображение в хранилище и возвращает его публичный URL.
// Без флага overwrite существующий ключ не перезаписывается.
func (s *CatalogServiceImpl) Upload(ctx context.Context, key string, body []byte, contentType string, overwrite bool) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if !overwrite {
		exists, err := s.storage.ObjectExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check object %q: %w", key, err)
		}
		if exists {
			return "", fmt.Errorf("%w: %s", ErrObjectExists, key)
		}
	}
	if err := s.storage.Upload(ctx, key, body, contentType); err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	return s.ImageURL(key), nil
}

// ImageURL строит публичный URL изображения по ключу хранилища.
func (s *CatalogServiceImpl) ImageURL(key string) string {
	if s.publicDomain != "" {
		return strings.TrimSuffix(s.publicDomain, "/") + "/" + key
	}
	return "/api/r2/file/" + key
}

// fallbackLocations возвращает статический список локаций на случай
// недоступного хранилища.
func fallbackLocations() *models.LocationsResponse {
	return &models.LocationsResponse{
		Success: true,
		Locations: []*models.Location{
			{Name: "Gdańsk", ProductIdentifiers: []string{"brelok", "dzwonek", "kubek", "magnes"}},
			{Name: "Kołobrzeg", ProductIdentifiers: []string{"kubek", "magnes", "otwieracz"}},
		},
		Source: SourceFallback,
	}
}
