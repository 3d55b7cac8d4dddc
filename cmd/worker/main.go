package main

import (
	"NetVault/config"
	"NetVault/internal/repo"
	"NetVault/internal/storage"
	"NetVault/internal/worker"
	"NetVault/utils"
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	utils.InitCacheManager()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("import worker started")
	if err := worker.RunImportWorker(ctx, storage.Default); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("import worker stopped: %v", err)
	}
}
