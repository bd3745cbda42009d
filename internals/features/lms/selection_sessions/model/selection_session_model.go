// file: internals/features/lms/selection_sessions/model/selection_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// SelectionSessionModel menyimpan state seleksi satu admin untuk satu list.
// selection_session_ids = selected ids (scope page) / excluded ids (scope all).
type SelectionSessionModel struct {
	SelectionSessionID      uuid.UUID      `gorm:"column:selection_session_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"selection_session_id"`
	SelectionSessionOwnerID uuid.UUID      `gorm:"column:selection_session_owner_id;type:uuid;not null;uniqueIndex:uq_selection_sessions_owner_list" json:"selection_session_owner_id"`
	SelectionSessionListKey string         `gorm:"column:selection_session_list_key;type:varchar(64);not null;uniqueIndex:uq_selection_sessions_owner_list" json:"selection_session_list_key"`
	SelectionSessionScope   string         `gorm:"column:selection_session_scope;type:varchar(8);not null;default:'none'" json:"selection_session_scope"`
	SelectionSessionIDs     pq.StringArray `gorm:"column:selection_session_ids;type:text[];not null;default:'{}'" json:"selection_session_ids"`
	SelectionSessionTotal   int            `gorm:"column:selection_session_total;not null;default:0" json:"selection_session_total"`

	// Filter list saat seleksi dibuat; fingerprint dipakai untuk deteksi perubahan filter
	SelectionSessionFilterHash string         `gorm:"column:selection_session_filter_hash;type:char(64);not null" json:"selection_session_filter_hash"`
	SelectionSessionFilter     datatypes.JSON `gorm:"column:selection_session_filter;type:jsonb;not null;default:'{}'" json:"selection_session_filter"`

	SelectionSessionExpiresAt time.Time `gorm:"column:selection_session_expires_at;type:timestamptz;not null;index" json:"selection_session_expires_at"`
	SelectionSessionCreatedAt time.Time `gorm:"column:selection_session_created_at;autoCreateTime" json:"selection_session_created_at"`
	SelectionSessionUpdatedAt time.Time `gorm:"column:selection_session_updated_at;autoUpdateTime" json:"selection_session_updated_at"`
}

func (SelectionSessionModel) TableName() string {
	return "selection_sessions"
}
