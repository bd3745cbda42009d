package seeds

import (
	learning_paths "lmsku_backend/internals/seeds/learning_paths"

	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB) {

	//* LMS
	learning_paths.SeedLearningPathsFromJSON(db, "internals/seeds/learning_paths/data_learning_paths.json")
}
