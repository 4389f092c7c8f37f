package repository

import (
	"context"

	"golang-stock-watchlist/internal/entity"

	"gorm.io/gorm"
)

// WatchlistStoreRepository is the shared multi-tenant store of watchlist
// rows. Tenants are addressed by the authenticated identity; rows within a
// tenant keep their saved order.
type WatchlistStoreRepository interface {
	ListTenants(ctx context.Context) ([]string, error)
	TenantExists(ctx context.Context, tenant string) (bool, error)
	CreateTenant(ctx context.Context, tenant string) error
	ReadAll(ctx context.Context, tenant string) ([]entity.WatchlistRow, error)
	AppendRows(ctx context.Context, tenant string, rows []entity.WatchlistRow) error
	ClearAll(ctx context.Context, tenant string) error
	ReplaceAll(ctx context.Context, tenant string, rows []entity.WatchlistRow) error
}

// NewWatchlistStoreRepository creates a GORM-based watchlist store.
func NewWatchlistStoreRepository(db *gorm.DB) WatchlistStoreRepository {
	return &watchlistStoreRepository{db: db}
}

type watchlistStoreRepository struct {
	db *gorm.DB
}

// ListTenants returns every tenant name in creation order.
func (r *watchlistStoreRepository) ListTenants(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&entity.WatchlistTenant{}).
		Order("id").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// TenantExists reports whether the tenant has a partition in the store.
func (r *watchlistStoreRepository) TenantExists(ctx context.Context, tenant string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.WatchlistTenant{}).
		Where("name = ?", tenant).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTenant creates an empty partition for the tenant.
func (r *watchlistStoreRepository) CreateTenant(ctx context.Context, tenant string) error {
	return r.db.WithContext(ctx).Create(&entity.WatchlistTenant{Name: tenant}).Error
}

// ReadAll returns the tenant's rows in saved order.
func (r *watchlistStoreRepository) ReadAll(ctx context.Context, tenant string) ([]entity.WatchlistRow, error) {
	var rows []entity.WatchlistRow
	if err := r.db.WithContext(ctx).
		Where("tenant = ?", tenant).
		Order("position, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendRows appends rows to the tenant's partition. No deduplication is
// performed; callers wanting replace semantics use ReplaceAll.
func (r *watchlistStoreRepository) AppendRows(ctx context.Context, tenant string, rows []entity.WatchlistRow) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].Tenant = tenant
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ClearAll removes every row in the tenant's partition.
func (r *watchlistStoreRepository) ClearAll(ctx context.Context, tenant string) error {
	return r.db.WithContext(ctx).
		Where("tenant = ?", tenant).
		Delete(&entity.WatchlistRow{}).Error
}

// ReplaceAll clears the tenant's partition and writes the new rows in one
// transaction. Last writer wins; there is no concurrency check.
func (r *watchlistStoreRepository) ReplaceAll(ctx context.Context, tenant string, rows []entity.WatchlistRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant = ?", tenant).Delete(&entity.WatchlistRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].Tenant = tenant
		}
		return tx.Create(&rows).Error
	})
}
