package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"interview_screening_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// InterviewSession 一场进行中面试的全部瞬时状态，以不透明的会话 ID 为句柄
// 在控制器 API 里显式传递，不走任何全局变量。进程内默认不跨重启存活；
// 配成 redis 后端时状态随 TTL 存续，这是存储选型的副作用而非恢复承诺。
type InterviewSession struct {
	ID          string     `json:"id"`
	CandidateID uint       `json:"candidateId"`
	InterviewID uint       `json:"interviewId"`
	Role        string     `json:"role"`
	Experience  string     `json:"experience"`
	Questions   []Question `json:"questions"`
	Index       int        `json:"index"`
	Started     bool       `json:"started"`
	Finalized   bool       `json:"finalized"`
	FinalScore  float64    `json:"finalScore"`
}

// Terminal 会话是否已走到终点：问题用尽或触到 20 题硬上限
func (s *InterviewSession) Terminal() bool {
	return s.Index >= len(s.Questions) || s.Index >= TotalQuestions
}

// SessionStore 会话状态存取。memory 与 redis 两个实现，
// 选型方式与存储层的 local/minio 一致。
type SessionStore interface {
	Save(ctx context.Context, session *InterviewSession) error
	Get(ctx context.Context, id string) (*InterviewSession, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore 进程内实现，单实例部署的默认选项
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*InterviewSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*InterviewSession)}
}

func (m *MemorySessionStore) Save(ctx context.Context, session *InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// RedisSessionStore JSON 序列化后带 TTL 存入 Redis
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return "interview:session:" + id
}

func (r *RedisSessionStore) Save(ctx context.Context, session *InterviewSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(session.ID), data, r.ttl).Err()
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*InterviewSession, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session InterviewSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionKey(id)).Err()
}
