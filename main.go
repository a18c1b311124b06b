// @title AI面试初筛后端 API
// @version 1.0
// @description AI驱动的候选人面试初筛服务：动态出题、语音/文字作答、自动评分与管理端看板。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"interview_screening_backend/internal/app"
	"interview_screening_backend/internal/config"
	"interview_screening_backend/pkg/logger"
	"log"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件所在目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
