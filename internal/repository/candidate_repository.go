package repository

import (
	"interview_screening_backend/internal/model"

	"gorm.io/gorm"
)

type CandidateRepository struct {
	DB *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{DB: db}
}

func (r *CandidateRepository) Create(c *model.Candidate) error {
	return r.DB.Create(c).Error
}

func (r *CandidateRepository) FindByID(id uint) (*model.Candidate, error) {
	var c model.Candidate
	err := r.DB.First(&c, id).Error
	return &c, err
}

// ListWithInterview 管理端列表：候选人 LEFT JOIN 其（至多一条）面试，最新在前
func (r *CandidateRepository) ListWithInterview() ([]model.CandidateSummary, error) {
	var rows []model.CandidateSummary
	err := r.DB.Table("candidates c").
		Select(`c.id AS candidate_id,
			c.full_name,
			c.email,
			c.role,
			i.id AS interview_id,
			i.started_at,
			i.status,
			i.overall_score`).
		Joins("LEFT JOIN interviews i ON i.candidate_id = c.id AND i.deleted_at IS NULL").
		Where("c.deleted_at IS NULL").
		Order("c.id DESC").
		Scan(&rows).Error
	return rows, err
}
