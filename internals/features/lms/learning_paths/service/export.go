// file: internals/features/lms/learning_paths/service/export.go
package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"lmsku_backend/internals/features/lms/learning_paths/model"
)

var csvHeader = []string{
	"id", "title", "slug", "status", "items_count", "total_duration_minutes", "tags", "created_at",
}

// WriteCSV menulis header + satu baris per learning path.
func WriteCSV(w io.Writer, paths []model.LearningPathModel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range paths {
		if err := cw.Write([]string{
			p.LearningPathID.String(),
			p.LearningPathTitle,
			p.LearningPathSlug,
			p.LearningPathStatus,
			strconv.Itoa(p.LearningPathItemsCount),
			strconv.Itoa(p.LearningPathTotalDurationMinutes),
			strings.Join(p.LearningPathTags, "|"),
			p.LearningPathCreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
