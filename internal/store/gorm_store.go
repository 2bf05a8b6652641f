package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/catalog/internal/domain"
	perrors "github.com/abgdnv/catalog/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormProduct is the GORM model of the products table.
type gormProduct struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"not null;uniqueIndex:products_name_key"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Amount      int64   `gorm:"not null"`
}

func (gormProduct) TableName() string {
	return "products"
}

// GormStore implements ProductStore on top of GORM. It is used with SQLite.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens the SQLite database at dsn with error translation enabled
// so that unique index violations surface as gorm.ErrDuplicatedKey.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return gdb, nil
}

// NewGormStore creates a GormStore and makes sure the products table exists.
func NewGormStore(gdb *gorm.DB) (*GormStore, error) {
	if err := gdb.AutoMigrate(&gormProduct{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GormStore{db: gdb}, nil
}

// Save inserts or updates a product depending on whether it already has an ID.
func (s *GormStore) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := fromDomain(p)
	if row.ID == 0 {
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", translateGormError(err))
		}
		return row.toDomain(), nil
	}

	res := s.db.WithContext(ctx).Model(&gormProduct{}).Where("id = ?", row.ID).Updates(map[string]any{
		"name":        row.Name,
		"description": row.Description,
		"price":       row.Price,
		"amount":      row.Amount,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product: %w", translateGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, perrors.ErrProductNotFound
	}
	return row.toDomain(), nil
}

// FindByID retrieves a product by its ID.
func (s *GormStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row gormProduct
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return row.toDomain(), nil
}

// FindAll retrieves all products ordered by ID.
func (s *GormStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	var rows []gormProduct
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, *row.toDomain())
	}
	return products, nil
}

// ExistsByID reports whether a product with the given ID exists.
func (s *GormStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&gormProduct{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return count > 0, nil
}

// DeleteByID deletes a product by its ID.
func (s *GormStore) DeleteByID(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&gormProduct{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: products_name_key", perrors.ErrUniqueViolation)
	}
	return err
}

func fromDomain(p domain.Product) gormProduct {
	return gormProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Amount:      p.Amount,
	}
}

func (g gormProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Price:       g.Price,
		Amount:      g.Amount,
	}
}
