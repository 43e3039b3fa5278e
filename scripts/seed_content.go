// 手动灌入本地内容种子
//
// 正常情况下内容由同步拉取下发，此脚本用于完全离线的首次部署，
// 或演示环境需要固定内容时。
//
// 用法: go run scripts/seed_content.go [种子文件路径]

package main

import (
	"log"
	"os"

	"kidquiz_local/internal/config"
	"kidquiz_local/internal/migration"
	"kidquiz_local/internal/repository"
	"kidquiz_local/internal/service"
	"kidquiz_local/pkg/database"
	"kidquiz_local/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	if err := migration.NewMigrator(db).EnsureSchema(); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	path := "configs/seed_content.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	content := service.NewContentService(
		repository.NewContentRepository(db),
		repository.NewUserSubjectRepository(db),
		cfg.Quiz,
	)
	if err := content.SeedFromFile(path); err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}

	log.Println("内容种子灌入完成")
}
