package dto

import (
	"lmsku_backend/internals/features/lms/selection"
	"lmsku_backend/internals/features/lms/selection_sessions/service"
)

const MaxVisibleIDs = 500

/* ===================== REQUESTS ===================== */

// POST /selections/:list_key/rows
type ToggleRowRequest struct {
	ID      string `json:"id" validate:"required,max=64"`
	Checked *bool  `json:"checked" validate:"required"`
}

// POST /selections/:list_key/page
type TogglePageRequest struct {
	Checked    *bool    `json:"checked" validate:"required"`
	VisibleIDs []string `json:"visible_ids" validate:"max=500,dive,required,max=64"`
}

// POST /selections/:list_key/header
type HeaderRequest struct {
	VisibleIDs []string `json:"visible_ids" validate:"max=500,dive,required,max=64"`
}

/* ===================== RESPONSES ===================== */

type HeaderResponse struct {
	Checked       bool `json:"checked"`
	Indeterminate bool `json:"indeterminate"`
}

type SelectionResponse struct {
	ListKey     string            `json:"list_key"`
	Scope       string            `json:"scope"`
	Count       int               `json:"count"`
	Total       int               `json:"total"`
	Selected    []string          `json:"selected_ids"`
	Excluded    []string          `json:"excluded_ids"`
	Filter      map[string]string `json:"filter"`
	FilterReset bool              `json:"filter_reset"`
	Header      *HeaderResponse   `json:"header,omitempty"`
}

func NewHeaderResponse(h selection.HeaderState) *HeaderResponse {
	return &HeaderResponse{Checked: h.Checked, Indeterminate: h.Indeterminate}
}

// NewSelectionResponse; visibleIDs opsional (kalau ada → sertakan state header).
func NewSelectionResponse(s *service.Session, visibleIDs []string) SelectionResponse {
	st := s.State
	out := SelectionResponse{
		ListKey:     s.ListKey,
		Scope:       st.Scope().String(),
		Count:       st.DerivedCount(),
		Total:       st.Total(),
		Selected:    st.Selected(),
		Excluded:    st.Excluded(),
		Filter:      map[string]string(s.Filter),
		FilterReset: s.FilterReset,
	}
	if out.Filter == nil {
		out.Filter = map[string]string{}
	}
	if visibleIDs != nil {
		out.Header = NewHeaderResponse(st.HeaderCheckboxState(visibleIDs))
	}
	return out
}
