package service

import (
	"errors"

	"interview_screening_backend/internal/model"
	"interview_screening_backend/internal/util"

	"gorm.io/gorm"
)

type CandidateDirectory interface {
	ListWithInterview() ([]model.CandidateSummary, error)
	FindByID(id uint) (*model.Candidate, error)
}

type InterviewFinder interface {
	FindByCandidate(candidateID uint) (*model.Interview, error)
}

type ResponseLister interface {
	ListByInterview(interviewID uint) ([]model.Response, error)
}

// AdminService 管理端只读视图：候选人列表与单人钻取
type AdminService struct {
	candidates CandidateDirectory
	interviews InterviewFinder
	responses  ResponseLister
}

func NewAdminService(candidates CandidateDirectory, interviews InterviewFinder, responses ResponseLister) *AdminService {
	return &AdminService{
		candidates: candidates,
		interviews: interviews,
		responses:  responses,
	}
}

func (s *AdminService) ListCandidates() ([]model.CandidateSummary, error) {
	return s.candidates.ListWithInterview()
}

// CandidateDetail 候选人详情 + 按题号排序的作答记录。
// 查不到人返回 ErrCandidateNotFound；有人没面试时返回空记录列表。
func (s *AdminService) CandidateDetail(id uint) (*model.Candidate, []model.Response, error) {
	candidate, err := s.candidates.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCandidateNotFound
		}
		return nil, nil, err
	}

	interview, err := s.interviews.FindByCandidate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, []model.Response{}, nil
		}
		return nil, nil, err
	}

	responses, err := s.responses.ListByInterview(interview.ID)
	if err != nil {
		return nil, nil, err
	}

	return candidate, responses, nil
}
