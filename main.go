package main

import (
	"NetVault/config"
	"NetVault/internal/repo"
	"NetVault/internal/storage"
	"NetVault/router"
	"NetVault/utils"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	utils.InitCacheManager()

	router := router.InitRouter()

	router.Run(":8000")
}
