package services

import (
	"ERPAuth/config"
	"ERPAuth/models"
	"ERPAuth/repositories"
	"ERPAuth/utils/validator"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type mockUserRepository struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uint]*models.User)}
}

func (m *mockUserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = uint(len(m.users) + 1)
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) FindByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) FindByResetToken(token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if token != "" && user.PasswordResetToken == token {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) Update(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newMockTokenRepository() *mockTokenRepository {
	return &mockTokenRepository{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenRepository) CreateRefreshToken(userID uint, token string, expiresAt time.Time, deviceInfo, ip string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt := &models.RefreshToken{
		ID:         uuid.New(),
		UserID:     userID,
		Token:      token,
		ExpiresAt:  expiresAt,
		DeviceInfo: deviceInfo,
		IP:         ip,
	}
	m.tokens[token] = rt
	return rt, nil
}

func (m *mockTokenRepository) GetRefreshToken(token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rt, ok := m.tokens[token]; ok {
		copied := *rt
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockTokenRepository) RotateRefreshToken(current *models.RefreshToken, newToken string, expiresAt time.Time) (*models.RefreshToken, error) {
	m.mu.Lock()
	stored, ok := m.tokens[current.Token]
	if !ok || stored.Used {
		m.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	stored.Used = true
	m.mu.Unlock()

	return m.CreateRefreshToken(current.UserID, newToken, expiresAt, current.DeviceInfo, current.IP)
}

func (m *mockTokenRepository) RevokeRefreshToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	rt.RevokedAt = &now
	return nil
}

func (m *mockTokenRepository) RevokeAllUserTokens(userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, rt := range m.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &now
		}
	}
	return nil
}

func (m *mockTokenRepository) CleanupExpiredTokens() error {
	return nil
}

// activeTokens counts the user's tokens that can still be refreshed.
func (m *mockTokenRepository) activeTokens(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rt := range m.tokens {
		if rt.UserID == userID && rt.IsValid() {
			n++
		}
	}
	return n
}

type mockEmailService struct {
	mu     sync.Mutex
	sent   map[string]string
	failed bool
}

func (m *mockEmailService) SendPasswordResetEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed {
		return errMockSMTP
	}
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[to] = token
	return nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestPolicyService() *PasswordPolicyService {
	return NewPasswordPolicyService(validator.DefaultPolicyConfig())
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		RefreshExpiry: 24 * time.Hour,
	}
}
