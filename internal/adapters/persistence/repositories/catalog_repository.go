package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// CatalogFilter narrows catalog listings. Refs maps a column name to a
// required foreign-key value; only set entries are applied.
type CatalogFilter struct {
	Search   string
	IsActive *bool
	Refs     map[string]string
	Limit    int
	Offset   int
}

// CatalogRepository is the single data-access implementation shared by all
// catalog (reference data) tables. Per-entity differences are limited to the
// searchable columns and relation preloads passed at construction.
type CatalogRepository[T any] struct {
	db            *gorm.DB
	searchColumns []string
	orderBy       string
	preloads      []string
}

// NewCatalogRepository creates a catalog repository for one entity type
func NewCatalogRepository[T any](db *gorm.DB, searchColumns []string, orderBy string, preloads ...string) *CatalogRepository[T] {
	return &CatalogRepository[T]{
		db:            db,
		searchColumns: searchColumns,
		orderBy:       orderBy,
		preloads:      preloads,
	}
}

// List returns one window of rows plus the total row count for the filter
func (r *CatalogRepository[T]) List(ctx context.Context, f CatalogFilter) ([]*T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	if f.Search != "" {
		var conds []string
		var args []interface{}
		for _, col := range r.searchColumns {
			conds = append(conds, col+" LIKE ?")
			args = append(args, "%"+f.Search+"%")
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}
	for col, val := range f.Refs {
		query = query.Where(col+" = ?", val)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, preload := range r.preloads {
		query = query.Preload(preload)
	}

	var items []*T
	err := query.Order(r.orderBy).Offset(f.Offset).Limit(f.Limit).Find(&items).Error
	return items, total, err
}

// GetByID gets one row by primary key, relations preloaded
func (r *CatalogRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	query := r.db.WithContext(ctx)
	for _, preload := range r.preloads {
		query = query.Preload(preload)
	}

	var item T
	if err := query.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new row
func (r *CatalogRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update saves all fields of an existing row
func (r *CatalogRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete soft deletes a row by primary key
func (r *CatalogRepository[T]) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error
}

// ExistsWhere checks whether any row matches the condition
func (r *CatalogRepository[T]) ExistsWhere(ctx context.Context, cond string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(cond, args...).Count(&count).Error
	return count > 0, err
}
