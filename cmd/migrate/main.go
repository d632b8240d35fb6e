// Package main 数据库初始化入口
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/milvus"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/postgres"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting schema migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to init postgres: %v", err)
	}
	defer func() { _ = pgClient.Close() }()

	if err := pgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.Report{},
		&entity.ReportSection{},
		&entity.ReportJob{},
		&entity.DocumentSegment{},
		&entity.SystemSetting{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("PostgreSQL schema migrated")

	// 审批开关缺省为人工审核
	settingRepo := postgres.NewSettingRepository(pgClient)
	if _, err := settingRepo.Get(ctx, entity.SettingAutoApproveReports); err != nil {
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			log.Fatalf("failed to read settings: %v", err)
		}
		if err := settingRepo.Set(ctx, entity.SettingAutoApproveReports, "false"); err != nil {
			log.Fatalf("failed to seed settings: %v", err)
		}
		fmt.Println("Seeded auto_approve_reports=false")
	}

	// Milvus 集合（未配置时跳过）
	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		fmt.Printf("Milvus not available, skipping vector setup: %v\n", err)
		fmt.Println("Migration finished")
		return
	}
	defer func() { _ = milvusClient.Close() }()

	repo := milvus.NewRepository(milvusClient)
	if err := repo.EnsureDocumentSegmentsCollection(ctx); err != nil {
		log.Fatalf("failed to ensure milvus collection: %v", err)
	}
	fmt.Println("Milvus collection ready")

	fmt.Println("Migration finished")
}
