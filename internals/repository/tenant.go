// Package repository wraps store access for tenant-owned collections.
// Every read/write here is parameterized by school id; handlers resolve the
// tenant from the caller's identity before touching this layer.
package repository

import (
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
)

// Identifiable is implemented by every tenant-owned model so the cursor can
// key on the monotonically increasing row id.
type Identifiable interface {
	GetID() uint
}

// TenantScope restricts a query to one school.
func TenantScope(schoolID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("school_id = ?", schoolID)
	}
}

type Page[T Identifiable] struct {
	Items       []T
	NextAfterID *uint
}

// ListPage runs keyset pagination: fetch limit+1 rows ordered by id to learn
// has_more, then truncate. NextAfterID is nil when no more rows exist.
func ListPage[T Identifiable](db *gorm.DB, cur helper.Cursor, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var rows []T
	q := db.Scopes(scopes...)
	if cur.AfterID > 0 {
		q = q.Where("id > ?", cur.AfterID)
	}
	if err := q.Order("id ASC").Limit(cur.Limit + 1).Find(&rows).Error; err != nil {
		return Page[T]{}, apperr.FromGorm(err, "")
	}

	page := Page[T]{Items: rows}
	if len(rows) > cur.Limit {
		page.Items = rows[:cur.Limit]
		last := page.Items[len(page.Items)-1].GetID()
		page.NextAfterID = &last
	}
	return page, nil
}

// Find loads a record by id without tenant filtering; the caller applies the
// view policy afterwards (Forbidden for cross-tenant, distinct from NotFound).
func Find[T any](db *gorm.DB, id uint, notFoundMsg string) (*T, error) {
	var row T
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, apperr.FromGorm(err, notFoundMsg)
	}
	return &row, nil
}

// FindInTenant loads a record with tenant filtering applied at lookup; a
// cross-tenant id resolves to NotFound here, by design.
func FindInTenant[T any](db *gorm.DB, id, schoolID uint, notFoundMsg string) (*T, error) {
	var row T
	if err := db.Where("id = ? AND school_id = ?", id, schoolID).First(&row).Error; err != nil {
		return nil, apperr.FromGorm(err, notFoundMsg)
	}
	return &row, nil
}

// Count counts rows of T under the given scopes.
func Count[T any](db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(new(T)).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, apperr.FromGorm(err, "")
	}
	return n, nil
}
