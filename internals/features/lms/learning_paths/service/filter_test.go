package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lmsku_backend/internals/features/lms/learning_paths/model"
	"lmsku_backend/internals/features/lms/selection"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

func dryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=lms dbname=lms sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func toSQL(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []model.LearningPathModel
		return tx.Model(&model.LearningPathModel{}).Scopes(scope).Find(&rows)
	})
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(map[string]string{"q": " Go ", "status": "Published", "tag": "Backend", "page": "2"})
	require.NoError(t, err)
	assert.Equal(t, selSvc.Filter{"q": "Go", "status": "published", "tag": "backend"}, f)

	_, err = ParseFilter(map[string]string{"status": "deleted"})
	assert.Error(t, err)

	_, err = ParseFilter(map[string]string{"created_by": "bukan-uuid"})
	assert.Error(t, err)
}

func TestApplyFilterSQL(t *testing.T) {
	db := dryDB(t)
	creator := uuid.New()
	sql := toSQL(db, ApplyFilter(selSvc.Filter{
		"q": "Go", "status": "draft", "tag": "backend", "created_by": creator.String(),
	}))

	assert.Contains(t, sql, "LOWER(learning_path_title) LIKE '%go%'")
	assert.Contains(t, sql, "learning_path_status = 'draft'")
	assert.Contains(t, sql, "'backend' = ANY(learning_path_tags)")
	assert.Contains(t, sql, creator.String())
	assert.Contains(t, sql, `"learning_paths"."learning_path_deleted_at" IS NULL`)
}

func TestApplyTargetsPageScopeUsesIN(t *testing.T) {
	db := dryDB(t)
	a, b := uuid.New(), uuid.New()
	sql := toSQL(db, ApplyTargets(selection.Targets{IDs: []string{a.String(), b.String(), "rusak"}}, selSvc.Filter{"status": "draft"}))

	assert.Contains(t, sql, "learning_path_id IN (")
	assert.Contains(t, sql, a.String())
	assert.Contains(t, sql, b.String())
	assert.NotContains(t, sql, "rusak")
	// scope page tidak membawa filter
	assert.NotContains(t, sql, "learning_path_status")
}

func TestApplyTargetsAllScopeUsesFilterAndNotIN(t *testing.T) {
	db := dryDB(t)
	ex := uuid.New()
	sql := toSQL(db, ApplyTargets(selection.Targets{All: true, Excluded: []string{ex.String()}}, selSvc.Filter{"status": "published"}))

	assert.Contains(t, sql, "learning_path_status = 'published'")
	assert.Contains(t, sql, "learning_path_id NOT IN (")
	assert.Contains(t, sql, ex.String())

	sql = toSQL(db, ApplyTargets(selection.Targets{All: true}, nil))
	assert.NotContains(t, sql, "NOT IN")
}

func TestApplyTargetsEmptyMatchesNothing(t *testing.T) {
	sql := toSQL(dryDB(t), ApplyTargets(selection.Targets{}, nil))
	assert.Contains(t, sql, "1 = 0")
}

func TestApplyFilterEscapesLikeWildcards(t *testing.T) {
	sql := toSQL(dryDB(t), ApplyFilter(selSvc.Filter{"q": "50%_Off"}))
	assert.Contains(t, sql, `LIKE '%50\%\_off%' ESCAPE '\'`)
}

func TestGormSourceCanonicalID(t *testing.T) {
	src := NewGormSource(nil)
	id := uuid.New()
	assert.Equal(t, id.String(), src.CanonicalID(strings.ToUpper(id.String())))
	assert.Equal(t, id.String(), src.CanonicalID(" "+id.String()+" "))
	assert.Equal(t, "", src.CanonicalID("bukan-uuid"))
}
