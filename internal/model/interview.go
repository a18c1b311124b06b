package model

import "time"

type InterviewStatus string

const (
	InterviewInProgress InterviewStatus = "IN_PROGRESS"
	InterviewCompleted  InterviewStatus = "COMPLETED"
)

// Interview 一场面试，创建后只在定稿时更新一次（时间戳 + 总分 + 状态翻转）
// swagger:model Interview
type Interview struct {
	BaseModel
	CandidateID  uint            `gorm:"index" json:"candidateId"`
	StartedAt    time.Time       `json:"startedAt"`
	SubmittedAt  *time.Time      `json:"submittedAt,omitempty"`
	OverallScore *float64        `json:"overallScore,omitempty"` // 0-100
	Status       InterviewStatus `gorm:"size:20" json:"status"`
}

func (Interview) TableName() string {
	return "interviews"
}
