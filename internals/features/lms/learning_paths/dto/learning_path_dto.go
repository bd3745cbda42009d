// file: internals/features/lms/learning_paths/dto/learning_path_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lmsku_backend/internals/features/lms/learning_paths/model"
)

/* ===================== REQUESTS ===================== */

type CreateLearningPathRequest struct {
	LearningPathTitle       string   `json:"learning_path_title" validate:"required,min=3,max=160"`
	LearningPathSlug        string   `json:"learning_path_slug" validate:"omitempty,max=160"`
	LearningPathDescription *string  `json:"learning_path_description" validate:"omitempty,max=5000"`
	LearningPathStatus      string   `json:"learning_path_status" validate:"omitempty,oneof=draft published archived"`
	LearningPathTags        []string `json:"learning_path_tags" validate:"omitempty,max=20,dive,required,max=40"`
}

func (r *CreateLearningPathRequest) Normalize() {
	r.LearningPathTitle = strings.TrimSpace(r.LearningPathTitle)
	r.LearningPathSlug = strings.TrimSpace(r.LearningPathSlug)
	r.LearningPathStatus = strings.ToLower(strings.TrimSpace(r.LearningPathStatus))
	if r.LearningPathStatus == "" {
		r.LearningPathStatus = model.StatusDraft
	}
	r.LearningPathDescription = trimPtr(r.LearningPathDescription)
	r.LearningPathTags = normalizeTags(r.LearningPathTags)
}

func (r *CreateLearningPathRequest) ToModel(slug string, createdBy uuid.UUID) *model.LearningPathModel {
	m := &model.LearningPathModel{
		LearningPathTitle:       r.LearningPathTitle,
		LearningPathSlug:        slug,
		LearningPathDescription: r.LearningPathDescription,
		LearningPathStatus:      r.LearningPathStatus,
		LearningPathTags:        pq.StringArray(r.LearningPathTags),
	}
	if createdBy != uuid.Nil {
		m.LearningPathCreatedBy = &createdBy
	}
	if m.LearningPathTags == nil {
		m.LearningPathTags = pq.StringArray{}
	}
	return m
}

// PATCH: nil = tidak diubah
type UpdateLearningPathRequest struct {
	LearningPathTitle       *string   `json:"learning_path_title" validate:"omitempty,min=3,max=160"`
	LearningPathSlug        *string   `json:"learning_path_slug" validate:"omitempty,max=160"`
	LearningPathDescription *string   `json:"learning_path_description" validate:"omitempty,max=5000"`
	LearningPathStatus      *string   `json:"learning_path_status" validate:"omitempty,oneof=draft published archived"`
	LearningPathTags        *[]string `json:"learning_path_tags" validate:"omitempty,max=20,dive,required,max=40"`
}

func (r *UpdateLearningPathRequest) Normalize() {
	r.LearningPathTitle = trimPtr(r.LearningPathTitle)
	r.LearningPathSlug = trimPtr(r.LearningPathSlug)
	if r.LearningPathStatus != nil {
		s := strings.ToLower(strings.TrimSpace(*r.LearningPathStatus))
		r.LearningPathStatus = &s
	}
	if r.LearningPathTags != nil {
		t := normalizeTags(*r.LearningPathTags)
		r.LearningPathTags = &t
	}
}

// Apply menulis field yang dikirim ke model; slug diurus controller.
func (r *UpdateLearningPathRequest) Apply(m *model.LearningPathModel) {
	if r.LearningPathTitle != nil {
		m.LearningPathTitle = *r.LearningPathTitle
	}
	if r.LearningPathDescription != nil {
		if *r.LearningPathDescription == "" {
			m.LearningPathDescription = nil
		} else {
			d := *r.LearningPathDescription
			m.LearningPathDescription = &d
		}
	}
	if r.LearningPathStatus != nil {
		m.LearningPathStatus = *r.LearningPathStatus
	}
	if r.LearningPathTags != nil {
		m.LearningPathTags = pq.StringArray(*r.LearningPathTags)
	}
}

type AddItemRequest struct {
	LearningPathItemKind            string     `json:"learning_path_item_kind" validate:"required,oneof=module assessment survey"`
	LearningPathItemRefID           *uuid.UUID `json:"learning_path_item_ref_id"`
	LearningPathItemTitle           string     `json:"learning_path_item_title" validate:"required,max=160"`
	LearningPathItemDurationMinutes int        `json:"learning_path_item_duration_minutes" validate:"min=0,max=10000"`
	// 0-based; kosong = taruh di akhir
	Index *int `json:"index" validate:"omitempty,min=0"`
}

func (r *AddItemRequest) ToModel(pathID uuid.UUID, position int) *model.LearningPathItemModel {
	return &model.LearningPathItemModel{
		LearningPathItemPathID:          pathID,
		LearningPathItemKind:            strings.ToLower(strings.TrimSpace(r.LearningPathItemKind)),
		LearningPathItemRefID:           r.LearningPathItemRefID,
		LearningPathItemTitle:           strings.TrimSpace(r.LearningPathItemTitle),
		LearningPathItemDurationMinutes: r.LearningPathItemDurationMinutes,
		LearningPathItemPosition:        position,
	}
}

type UpdateItemRequest struct {
	LearningPathItemKind            *string    `json:"learning_path_item_kind" validate:"omitempty,oneof=module assessment survey"`
	LearningPathItemRefID           *uuid.UUID `json:"learning_path_item_ref_id"`
	LearningPathItemTitle           *string    `json:"learning_path_item_title" validate:"omitempty,min=1,max=160"`
	LearningPathItemDurationMinutes *int       `json:"learning_path_item_duration_minutes" validate:"omitempty,min=0,max=10000"`
}

func (r *UpdateItemRequest) Apply(m *model.LearningPathItemModel) {
	if r.LearningPathItemKind != nil {
		m.LearningPathItemKind = *r.LearningPathItemKind
	}
	if r.LearningPathItemRefID != nil {
		m.LearningPathItemRefID = r.LearningPathItemRefID
	}
	if r.LearningPathItemTitle != nil {
		m.LearningPathItemTitle = strings.TrimSpace(*r.LearningPathItemTitle)
	}
	if r.LearningPathItemDurationMinutes != nil {
		m.LearningPathItemDurationMinutes = *r.LearningPathItemDurationMinutes
	}
}

type ReorderItemsRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"required,min=1,max=500"`
}

type MoveItemRequest struct {
	ToIndex *int `json:"to_index" validate:"required,min=0"`
}

/* ===================== RESPONSES ===================== */

type LearningPathItemResponse struct {
	LearningPathItemID              uuid.UUID  `json:"learning_path_item_id"`
	LearningPathItemKind            string     `json:"learning_path_item_kind"`
	LearningPathItemRefID           *uuid.UUID `json:"learning_path_item_ref_id,omitempty"`
	LearningPathItemTitle           string     `json:"learning_path_item_title"`
	LearningPathItemDurationMinutes int        `json:"learning_path_item_duration_minutes"`
	LearningPathItemPosition        int        `json:"learning_path_item_position"`
}

type LearningPathResponse struct {
	LearningPathID                   uuid.UUID                  `json:"learning_path_id"`
	LearningPathTitle                string                     `json:"learning_path_title"`
	LearningPathSlug                 string                     `json:"learning_path_slug"`
	LearningPathDescription          *string                    `json:"learning_path_description,omitempty"`
	LearningPathStatus               string                     `json:"learning_path_status"`
	LearningPathTags                 []string                   `json:"learning_path_tags"`
	LearningPathTotalDurationMinutes int                        `json:"learning_path_total_duration_minutes"`
	LearningPathItemsCount           int                        `json:"learning_path_items_count"`
	LearningPathCreatedBy            *uuid.UUID                 `json:"learning_path_created_by,omitempty"`
	LearningPathCreatedAt            time.Time                  `json:"learning_path_created_at"`
	LearningPathUpdatedAt            time.Time                  `json:"learning_path_updated_at"`
	Items                            []LearningPathItemResponse `json:"items,omitempty"`

	// hanya diisi di list
	Selected *bool `json:"selected,omitempty"`
}

func NewItemResponse(m *model.LearningPathItemModel) LearningPathItemResponse {
	return LearningPathItemResponse{
		LearningPathItemID:              m.LearningPathItemID,
		LearningPathItemKind:            m.LearningPathItemKind,
		LearningPathItemRefID:           m.LearningPathItemRefID,
		LearningPathItemTitle:           m.LearningPathItemTitle,
		LearningPathItemDurationMinutes: m.LearningPathItemDurationMinutes,
		LearningPathItemPosition:        m.LearningPathItemPosition,
	}
}

func NewItemResponses(items []model.LearningPathItemModel) []LearningPathItemResponse {
	out := make([]LearningPathItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

func NewLearningPathResponse(m *model.LearningPathModel) LearningPathResponse {
	tags := []string(m.LearningPathTags)
	if tags == nil {
		tags = []string{}
	}
	out := LearningPathResponse{
		LearningPathID:                   m.LearningPathID,
		LearningPathTitle:                m.LearningPathTitle,
		LearningPathSlug:                 m.LearningPathSlug,
		LearningPathDescription:          m.LearningPathDescription,
		LearningPathStatus:               m.LearningPathStatus,
		LearningPathTags:                 tags,
		LearningPathTotalDurationMinutes: m.LearningPathTotalDurationMinutes,
		LearningPathItemsCount:           m.LearningPathItemsCount,
		LearningPathCreatedBy:            m.LearningPathCreatedBy,
		LearningPathCreatedAt:            m.LearningPathCreatedAt,
		LearningPathUpdatedAt:            m.LearningPathUpdatedAt,
	}
	if len(m.Items) > 0 {
		out.Items = NewItemResponses(m.Items)
	}
	return out
}

/* ===================== helpers ===================== */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// tag: lowercase, trim, unik, urutan dipertahankan
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
