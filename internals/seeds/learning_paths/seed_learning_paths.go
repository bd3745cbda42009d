package learning_paths

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"
	"gorm.io/gorm"

	lpModel "lmsku_backend/internals/features/lms/learning_paths/model"
	lpSvc "lmsku_backend/internals/features/lms/learning_paths/service"
	helper "lmsku_backend/internals/helpers"
)

type ItemSeed struct {
	Kind            string `json:"kind"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

type LearningPathSeed struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	Items       []ItemSeed `json:"items"`
}

// BuildModels mengubah seed → model (slug dari judul, posisi 1..n, ringkasan terisi).
func BuildModels(seeds []LearningPathSeed) ([]lpModel.LearningPathModel, error) {
	out := make([]lpModel.LearningPathModel, 0, len(seeds))
	for i, s := range seeds {
		if s.Title == "" {
			return nil, fmt.Errorf("seed #%d: title kosong", i)
		}
		status := s.Status
		if status == "" {
			status = lpModel.StatusDraft
		}
		if !lpModel.IsValidStatus(status) {
			return nil, fmt.Errorf("seed %q: status %q tidak valid", s.Title, status)
		}

		m := lpModel.LearningPathModel{
			LearningPathTitle:  s.Title,
			LearningPathSlug:   helper.Slugify(s.Title, helper.DefaultSlugMaxLen),
			LearningPathStatus: status,
			LearningPathTags:   pq.StringArray(append([]string{}, s.Tags...)),
		}
		if s.Description != "" {
			d := s.Description
			m.LearningPathDescription = &d
		}
		for j, it := range s.Items {
			m.Items = append(m.Items, lpModel.LearningPathItemModel{
				LearningPathItemKind:            it.Kind,
				LearningPathItemTitle:           it.Title,
				LearningPathItemDurationMinutes: it.DurationMinutes,
				LearningPathItemPosition:        j + 1,
			})
		}
		sum := lpSvc.Summarize(m.Items)
		m.LearningPathTotalDurationMinutes = sum.TotalDurationMinutes
		m.LearningPathItemsCount = sum.ItemsCount
		out = append(out, m)
	}
	return out, nil
}

func SeedLearningPathsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Gagal membaca file JSON: %v", err)
		return
	}

	var seeds []LearningPathSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Printf("❌ Gagal decode JSON: %v", err)
		return
	}
	models, err := BuildModels(seeds)
	if err != nil {
		log.Printf("❌ Seed tidak valid: %v", err)
		return
	}

	// slug yang sudah ada dilewati
	var existing []string
	if err := db.Model(&lpModel.LearningPathModel{}).Pluck("learning_path_slug", &existing).Error; err != nil {
		log.Printf("❌ Gagal ambil slug yang sudah ada: %v", err)
		return
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[s] = true
	}

	inserted := 0
	for i := range models {
		if have[models[i].LearningPathSlug] {
			log.Printf("ℹ️ Learning path '%s' sudah ada, dilewati.", models[i].LearningPathSlug)
			continue
		}
		if err := db.Create(&models[i]).Error; err != nil {
			log.Printf("❌ Gagal insert learning path '%s': %v", models[i].LearningPathSlug, err)
			continue
		}
		inserted++
	}
	log.Printf("✅ Berhasil insert %d learning path", inserted)
}
