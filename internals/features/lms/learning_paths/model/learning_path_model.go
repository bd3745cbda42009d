// file: internals/features/lms/learning_paths/model/learning_path_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

/* =========================================================
   ENUMS
========================================================= */

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	ItemKindModule     = "module"
	ItemKindAssessment = "assessment"
	ItemKindSurvey     = "survey"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

/* =========================================================
   LEARNING PATH
========================================================= */

type LearningPathModel struct {
	LearningPathID          uuid.UUID `gorm:"column:learning_path_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"learning_path_id"`
	LearningPathTitle       string    `gorm:"column:learning_path_title;type:varchar(160);not null" json:"learning_path_title"`
	LearningPathSlug        string    `gorm:"column:learning_path_slug;type:varchar(160);not null;uniqueIndex:uq_learning_paths_slug_alive,where:learning_path_deleted_at IS NULL" json:"learning_path_slug"`
	LearningPathDescription *string   `gorm:"column:learning_path_description;type:text" json:"learning_path_description,omitempty"`

	LearningPathStatus string         `gorm:"column:learning_path_status;type:varchar(16);not null;default:'draft';index" json:"learning_path_status"`
	LearningPathTags   pq.StringArray `gorm:"column:learning_path_tags;type:text[];not null;default:'{}'" json:"learning_path_tags"`

	// ringkasan dari items (dihitung ulang tiap kali items berubah)
	LearningPathTotalDurationMinutes int `gorm:"column:learning_path_total_duration_minutes;not null;default:0" json:"learning_path_total_duration_minutes"`
	LearningPathItemsCount           int `gorm:"column:learning_path_items_count;not null;default:0" json:"learning_path_items_count"`

	LearningPathCreatedBy *uuid.UUID `gorm:"column:learning_path_created_by;type:uuid;index" json:"learning_path_created_by,omitempty"`

	LearningPathCreatedAt time.Time      `gorm:"column:learning_path_created_at;autoCreateTime" json:"learning_path_created_at"`
	LearningPathUpdatedAt time.Time      `gorm:"column:learning_path_updated_at;autoUpdateTime" json:"learning_path_updated_at"`
	LearningPathDeletedAt gorm.DeletedAt `gorm:"column:learning_path_deleted_at;index" json:"-"`

	Items []LearningPathItemModel `gorm:"foreignKey:LearningPathItemPathID;references:LearningPathID" json:"items,omitempty"`
}

func (LearningPathModel) TableName() string {
	return "learning_paths"
}

/* =========================================================
   LEARNING PATH ITEM
========================================================= */

type LearningPathItemModel struct {
	LearningPathItemID     uuid.UUID  `gorm:"column:learning_path_item_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"learning_path_item_id"`
	LearningPathItemPathID uuid.UUID  `gorm:"column:learning_path_item_path_id;type:uuid;not null;index:idx_learning_path_items_path_pos,priority:1" json:"learning_path_item_path_id"`
	LearningPathItemKind   string     `gorm:"column:learning_path_item_kind;type:varchar(16);not null" json:"learning_path_item_kind"`
	LearningPathItemRefID  *uuid.UUID `gorm:"column:learning_path_item_ref_id;type:uuid" json:"learning_path_item_ref_id,omitempty"`
	LearningPathItemTitle  string     `gorm:"column:learning_path_item_title;type:varchar(160);not null" json:"learning_path_item_title"`

	LearningPathItemDurationMinutes int `gorm:"column:learning_path_item_duration_minutes;not null;default:0;check:learning_path_item_duration_minutes >= 0" json:"learning_path_item_duration_minutes"`
	LearningPathItemPosition        int `gorm:"column:learning_path_item_position;not null;index:idx_learning_path_items_path_pos,priority:2" json:"learning_path_item_position"`

	LearningPathItemCreatedAt time.Time      `gorm:"column:learning_path_item_created_at;autoCreateTime" json:"learning_path_item_created_at"`
	LearningPathItemUpdatedAt time.Time      `gorm:"column:learning_path_item_updated_at;autoUpdateTime" json:"learning_path_item_updated_at"`
	LearningPathItemDeletedAt gorm.DeletedAt `gorm:"column:learning_path_item_deleted_at;index" json:"-"`
}

func (LearningPathItemModel) TableName() string {
	return "learning_path_items"
}
