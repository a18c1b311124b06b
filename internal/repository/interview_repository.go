package repository

import (
	"time"

	"interview_screening_backend/internal/model"

	"gorm.io/gorm"
)

type InterviewRepository struct {
	DB *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

func (r *InterviewRepository) Create(i *model.Interview) error {
	return r.DB.Create(i).Error
}

func (r *InterviewRepository) FindByID(id uint) (*model.Interview, error) {
	var i model.Interview
	err := r.DB.First(&i, id).Error
	return &i, err
}

func (r *InterviewRepository) FindByCandidate(candidateID uint) (*model.Interview, error) {
	var i model.Interview
	err := r.DB.Where("candidate_id = ?", candidateID).First(&i).Error
	return &i, err
}

// Finalize 整场面试唯一的一次更新：提交时间 + 总分 + 状态翻转
func (r *InterviewRepository) Finalize(id uint, score float64) error {
	now := time.Now()
	return r.DB.Model(&model.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"submitted_at":  &now,
			"overall_score": score,
			"status":        model.InterviewCompleted,
		}).Error
}
