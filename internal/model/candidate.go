package model

// Candidate 候选人报名信息，表单提交后创建，之后不再修改
// swagger:model Candidate
type Candidate struct {
	BaseModel
	FullName   string `gorm:"size:255" json:"fullName"`
	Email      string `gorm:"size:255" json:"email"`
	Role       string `gorm:"size:255" json:"role"`
	Experience string `gorm:"size:64" json:"experience"` // 自由文本，不做数值约束
	Hobbies    string `gorm:"type:text" json:"hobbies"`
	ResumeName string `gorm:"size:255" json:"resumeName"` // 只存文件名，内容由存储层保管
}

func (Candidate) TableName() string {
	return "candidates"
}

// CandidateSummary 管理端列表行：候选人 LEFT JOIN 其（至多一条）面试
type CandidateSummary struct {
	CandidateID  uint     `json:"candidateId"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	InterviewID  *uint    `json:"interviewId,omitempty"`
	StartedAt    *string  `json:"startedAt,omitempty"`
	Status       *string  `json:"status,omitempty"`
	OverallScore *float64 `json:"overallScore,omitempty"`
}
