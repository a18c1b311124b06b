package repository

import (
	"interview_screening_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(resp *model.Response) error {
	return r.DB.Create(resp).Error
}

func (r *ResponseRepository) ListByInterview(interviewID uint) ([]model.Response, error) {
	var rows []model.Response
	err := r.DB.Where("interview_id = ?", interviewID).
		Order("question_index asc").
		Find(&rows).Error
	return rows, err
}

// AverageScore 定稿用的均分；没有任何作答记录时返回 0
func (r *ResponseRepository) AverageScore(interviewID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Response{}).
		Where("interview_id = ?", interviewID).
		Select("AVG(ai_score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
