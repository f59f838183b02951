package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	helper "schoolku_backend/internals/helpers"
)

type enrollment struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:50"`
	SchoolID uint   `gorm:"index;not null"`
}

func (e enrollment) GetID() uint { return e.ID }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&enrollment{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM enrollments")
	})
	return db
}

func seed(t *testing.T, db *gorm.DB, schoolID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&enrollment{
			Name:     fmt.Sprintf("row-%d-%d", schoolID, i),
			SchoolID: schoolID,
		}).Error)
	}
}

// 30 rows at limit 25: first page has 25 items and a cursor, the second page
// the remaining 5 and no cursor.
func TestListPageCursorWalk(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, 1, 30)

	first, err := ListPage[enrollment](db, helper.Cursor{Limit: 25}, TenantScope(1))
	require.NoError(t, err)
	assert.Len(t, first.Items, 25)
	require.NotNil(t, first.NextAfterID)
	assert.Equal(t, first.Items[24].ID, *first.NextAfterID)

	second, err := ListPage[enrollment](db, helper.Cursor{Limit: 25, AfterID: *first.NextAfterID}, TenantScope(1))
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)
	assert.Nil(t, second.NextAfterID)

	// No overlap and strictly increasing ids across the walk.
	prev := uint(0)
	for _, page := range [][]enrollment{first.Items, second.Items} {
		for _, row := range page {
			assert.Greater(t, row.ID, prev)
			prev = row.ID
		}
	}
}

func TestListPageExactBoundary(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, 1, 25)

	page, err := ListPage[enrollment](db, helper.Cursor{Limit: 25}, TenantScope(1))
	require.NoError(t, err)
	assert.Len(t, page.Items, 25)
	assert.Nil(t, page.NextAfterID)
}

func TestListPageEmptyTenant(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, 1, 3)

	page, err := ListPage[enrollment](db, helper.Cursor{Limit: 25}, TenantScope(99))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextAfterID)
}

func TestTenantScopeIsolation(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, 1, 4)
	seed(t, db, 2, 6)

	page, err := ListPage[enrollment](db, helper.Cursor{Limit: 25}, TenantScope(2))
	require.NoError(t, err)
	assert.Len(t, page.Items, 6)
	for _, row := range page.Items {
		assert.Equal(t, uint(2), row.SchoolID)
	}

	n, err := Count[enrollment](db, TenantScope(1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestFindAndFindInTenant(t *testing.T) {
	db := newTestDB(t)
	seed(t, db, 1, 1)

	var row enrollment
	require.NoError(t, db.First(&row).Error)

	found, err := Find[enrollment](db, row.ID, "not found")
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)

	_, err = Find[enrollment](db, 9999, "not found")
	assert.Error(t, err)

	// Cross-tenant lookup through FindInTenant resolves to NotFound.
	_, err = FindInTenant[enrollment](db, row.ID, 2, "not found")
	assert.Error(t, err)

	same, err := FindInTenant[enrollment](db, row.ID, 1, "not found")
	require.NoError(t, err)
	assert.Equal(t, row.ID, same.ID)
}
