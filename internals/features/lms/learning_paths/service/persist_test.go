package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lmsku_backend/internals/features/lms/learning_paths/model"
	"lmsku_backend/internals/features/lms/selection"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

func TestBulkSoftDeleteLocksTargets(t *testing.T) {
	db := dryDB(t)
	ex := uuid.New()
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ids []uuid.UUID
		return lockTargetIDs(tx, selection.Targets{All: true, Excluded: []string{ex.String()}}, selSvc.Filter{"status": "draft"}, &ids)
	})

	assert.Contains(t, sql, `SELECT "learning_path_id" FROM "learning_paths"`)
	assert.Contains(t, sql, "learning_path_status = 'draft'")
	assert.Contains(t, sql, "learning_path_id NOT IN ('"+ex.String()+"')")
	assert.Contains(t, sql, `"learning_paths"."learning_path_deleted_at" IS NULL`)
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestBulkSoftDeleteStatementsAreSoftAndScoped(t *testing.T) {
	db := dryDB(t)
	a, b := uuid.New(), uuid.New()
	ids := []uuid.UUID{a, b}

	paths := db.ToSQL(func(tx *gorm.DB) *gorm.DB { return softDeletePaths(tx, ids) })
	assert.Contains(t, paths, `UPDATE "learning_paths" SET "learning_path_deleted_at"=`)
	assert.Contains(t, paths, "learning_path_id IN (")
	assert.Contains(t, paths, a.String())
	assert.Contains(t, paths, b.String())
	assert.Contains(t, paths, `"learning_paths"."learning_path_deleted_at" IS NULL`)
	assert.NotContains(t, paths, "DELETE FROM")

	items := db.ToSQL(func(tx *gorm.DB) *gorm.DB { return softDeletePathItems(tx, ids) })
	assert.Contains(t, items, `UPDATE "learning_path_items" SET "learning_path_item_deleted_at"=`)
	assert.Contains(t, items, "learning_path_item_path_id IN (")
	assert.Contains(t, items, a.String())
	assert.Contains(t, items, b.String())
	assert.Contains(t, items, `"learning_path_items"."learning_path_item_deleted_at" IS NULL`)
	assert.NotContains(t, items, "DELETE FROM")
}

func TestBulkActionsRejectEmptyTargets(t *testing.T) {
	db := dryDB(t)
	_, err := BulkSoftDelete(context.Background(), db, selection.Targets{}, nil)
	assert.Error(t, err)
	_, err = FindTargets(context.Background(), db, selection.Targets{}, nil)
	assert.Error(t, err)
}

func TestExportQueryFetchesOneOverCap(t *testing.T) {
	db := dryDB(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []model.LearningPathModel
		return exportQuery(tx, selection.Targets{All: true}, selSvc.Filter{"tag": "go"}, &rows)
	})
	assert.Contains(t, sql, "'go' = ANY(learning_path_tags)")
	assert.Contains(t, sql, "ORDER BY learning_path_created_at ASC, learning_path_id ASC")
	assert.Contains(t, sql, "LIMIT 10001")
}

func TestExportTooLargeIs413(t *testing.T) {
	var fe *fiber.Error
	require.ErrorAs(t, ExportTooLarge(ExportHardCap+1), &fe)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, fe.Code)
	assert.Contains(t, fe.Message, "10000")
}
