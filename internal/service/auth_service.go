package service

import (
	"interview_screening_backend/internal/config"
	"interview_screening_backend/internal/util"
)

// AuthService 管理端登录。没有用户表：凭据就是配置里的静态值
//（内部演示工具的验收范围），比对通过后签发 JWT。
type AuthService struct {
	Cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Cfg: cfg}
}

func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.Cfg.Admin.Username || password != s.Cfg.Admin.Password {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateAdminJWT(username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
