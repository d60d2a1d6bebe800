// internal/services/session_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/utils"
	"github.com/Corphon/TubeGenius/internal/views"
)

// Session 一个浏览器会话对应的页面外壳
type Session struct {
	ID        string       `json:"id"`
	Shell     *views.Shell `json:"-"`
	CreatedAt time.Time    `json:"created_at"`

	mutex    sync.Mutex
	lastSeen time.Time
}

// LastSeen 最后访问时间
func (s *Session) LastSeen() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mutex.Lock()
	s.lastSeen = now
	s.mutex.Unlock()
}

// SessionService 管理内存中的会话，进程退出即丢失
type SessionService struct {
	gateway  views.Gateway
	logger   *zap.Logger
	sessions map[string]*Session
	mutex    sync.RWMutex

	stopOnce sync.Once
	stopChan chan struct{}
	now      func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(gateway views.Gateway, logger *zap.Logger) *SessionService {
	return &SessionService{
		gateway:  gateway,
		logger:   utils.OrNop(logger),
		sessions: make(map[string]*Session),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Create 新建会话，初始页面为脚本分析
func (s *SessionService) Create() *Session {
	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		Shell:     views.NewShell(s.gateway, s.logger),
		CreatedAt: now,
		lastSeen:  now,
	}

	s.mutex.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mutex.Unlock()

	utils.SetActiveSessions(count)
	s.logger.Debug("创建会话", zap.String("session_id", session.ID))
	return session
}

// Get 获取会话并刷新最后访问时间
func (s *SessionService) Get(id string) (*Session, error) {
	s.mutex.RLock()
	session, exists := s.sessions[id]
	s.mutex.RUnlock()

	if !exists {
		return nil, apperrors.NewNotFoundError("会话不存在: "+id, nil)
	}
	session.touch(s.now())
	return session, nil
}

// Delete 删除会话并关闭其事件总线
func (s *SessionService) Delete(id string) error {
	s.mutex.Lock()
	session, exists := s.sessions[id]
	if exists {
		delete(s.sessions, id)
	}
	count := len(s.sessions)
	s.mutex.Unlock()

	if !exists {
		return apperrors.NewNotFoundError("会话不存在: "+id, nil)
	}

	session.Shell.Close()
	utils.SetActiveSessions(count)
	return nil
}

// Count 当前会话数量
func (s *SessionService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

// CleanupIdle 清理超过 maxAge 未访问的会话，返回清理数量
func (s *SessionService) CleanupIdle(maxAge time.Duration) int {
	now := s.now()
	var expired []*Session

	s.mutex.Lock()
	for id, session := range s.sessions {
		if now.Sub(session.LastSeen()) > maxAge {
			delete(s.sessions, id)
			expired = append(expired, session)
		}
	}
	count := len(s.sessions)
	s.mutex.Unlock()

	for _, session := range expired {
		session.Shell.Close()
	}
	utils.SetActiveSessions(count)

	if len(expired) > 0 {
		s.logger.Info("🧹 清理空闲会话",
			zap.Int("removed", len(expired)),
			zap.Int("remaining", count))
	}
	return len(expired)
}

// StartSweeper 定期清理空闲会话，直到调用 Stop
func (s *SessionService) StartSweeper(interval, maxAge time.Duration) {
	if interval <= 0 || maxAge <= 0 {
		s.logger.Warn("⚠️ 会话清理参数无效，不启动定时清理",
			zap.Duration("interval", interval),
			zap.Duration("max_age", maxAge))
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.CleanupIdle(maxAge)
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop 停止定时清理并关闭所有会话
func (s *SessionService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mutex.Lock()
		sessions := s.sessions
		s.sessions = make(map[string]*Session)
		s.mutex.Unlock()

		for _, session := range sessions {
			session.Shell.Close()
		}
		utils.SetActiveSessions(0)
	})
}
