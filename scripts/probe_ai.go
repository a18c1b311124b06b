// 手动验证 AI 出题链路的脚本
//
// 部署后或更换 API Key 时跑一次，确认远端可达且回复可解析；
// 远端不可用时会打印兜底题库，同样属于正常输出。
//
// 用法: go run scripts/probe_ai.go -role "Backend Engineer" -experience 3

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"interview_screening_backend/internal/config"
	"interview_screening_backend/internal/service"
	"interview_screening_backend/pkg/logger"
)

func main() {
	role := flag.String("role", "Backend Engineer", "应聘岗位")
	experience := flag.String("experience", "3", "经验年限")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	aiService := service.NewAIService(cfg.AI)
	questions := aiService.GenerateQuestions(context.Background(), *role, *experience)

	for i, q := range questions {
		fmt.Printf("%2d. [%s] %s\n", i+1, q.Category, q.Question)
	}
}
