package main

import (
	"log"

	"lmsku_backend/internals/configs"
	"lmsku_backend/internals/seeds"
)

// Jalankan seed manual: go run ./cmd/seed
func main() {
	configs.LoadEnv()
	db := configs.InitSeederDB()
	seeds.RunAllSeeds(db)
	log.Println("✅ Seed selesai.")
}
