package model

// Response 一条问答记录，只追加，不更新不删除。
// 跳过的问题也会落一行：transcript 为空、得分 0、反馈 "Skipped"。
// swagger:model Response
type Response struct {
	BaseModel
	InterviewID   uint    `gorm:"index" json:"interviewId"`
	QuestionIndex int     `json:"questionIndex"` // 1 起始
	Category      string  `gorm:"size:64" json:"category"`
	QuestionText  string  `gorm:"type:text" json:"questionText"`
	Transcript    string  `gorm:"type:text" json:"transcript"`
	AIScore       float64 `gorm:"column:ai_score" json:"aiScore"` // 0-100
	AIFeedback    string  `gorm:"column:ai_feedback;type:text" json:"aiFeedback"`
}

func (Response) TableName() string {
	return "responses"
}
