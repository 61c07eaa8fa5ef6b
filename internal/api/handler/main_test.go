package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/datastore/memstore"
	"rewardportal/internal/interfaces"
	"rewardportal/internal/models"
	"rewardportal/internal/pkg/caching"
	"rewardportal/internal/pkg/locker"
	"rewardportal/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLimiter struct {
	denied map[string]bool
	seen   []string
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	l.seen = append(l.seen, key)
	if l.denied[key] {
		return limiter.ErrRateLimited
	}
	return nil
}

type server struct {
	t         *testing.T
	handler   http.Handler
	container *do.Injector
	limiter   *stubLimiter
}

func newServer(t *testing.T) *server {
	t.Helper()

	l := &stubLimiter{denied: map[string]bool{}}
	injector := do.New()
	do.ProvideValue[datastore.Store](injector, memstore.New())
	do.ProvideValue[caching.Cache](injector, caching.NewCacheLocal(1000, time.Minute))
	do.ProvideValue[interfaces.Locker](injector, locker.NewLocalLocker())
	do.ProvideValue[interfaces.Limiter](injector, l)
	do.ProvideValue(injector, zap.NewNop())
	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication("handler-secret")
	})
	services.Provide(injector)

	h, err := New(&Config{Container: injector, Origins: []string{"*"}})
	require.NoError(t, err)

	return &server{t, h, injector, l}
}

func (s *server) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) token(id string, role string) string {
	s.t.Helper()
	auth, err := do.Invoke[*services.Authentication](s.container)
	require.NoError(s.t, err)
	token, err := auth.CreateToken(&models.UserFromAuth{ID: id, Role: role})
	require.NoError(s.t, err)
	return token
}

func (s *server) seed() {
	s.t.Helper()
	ctx := context.Background()

	users, err := do.Invoke[*services.ServiceUser](s.container)
	require.NoError(s.t, err)
	_, err = users.CreateUser(ctx, "alice", "secret", 20)
	require.NoError(s.t, err)

	rewards, err := do.Invoke[*services.ServiceReward](s.container)
	require.NoError(s.t, err)
	stock, price := 5, 1
	_, err = rewards.CreateReward(ctx, services.RewardInput{Name: "Lucky Mug", Stock: &stock, Price: &price})
	require.NoError(s.t, err)
}

func (s *server) credits(id string) int {
	s.t.Helper()
	users, err := do.Invoke[*services.ServiceUser](s.container)
	require.NoError(s.t, err)
	user, err := users.FindUserByID(context.Background(), id)
	require.NoError(s.t, err)
	return user.Credits
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserLoginAndPlay(t *testing.T) {
	s := newServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/user/login", "", `{"id":"alice","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	rec = s.do(http.MethodPost, "/api/v1/user/login", "", `{"id":"alice","password":"nope"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)

	token := s.token("alice", models.RoleUser)
	rec = s.do(http.MethodPost, "/api/v1/user/play", token, `{"category":"BOX"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Lucky Mug")
	assert.Equal(t, 20-models.DefaultGameModeCost, s.credits("alice"))
	assert.Contains(t, s.limiter.seen, services.LimitKeyUserPlay("alice"))

	rec = s.do(http.MethodGet, "/api/v1/user/claims", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lucky Mug")

	rec = s.do(http.MethodGet, "/api/v1/user/credits", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SPEND")
}

func TestPlayRejections(t *testing.T) {
	s := newServer(t)
	s.seed()
	token := s.token("alice", models.RoleUser)

	rec := s.do(http.MethodPost, "/api/v1/user/play", token, `{"category":"LOTTERY"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/user/play", token, `{"category":"WHEEL"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, s.credits("alice"))

	s.limiter.denied[services.LimitKeyUserPlay("alice")] = true
	rec = s.do(http.MethodPost, "/api/v1/user/play", token, `{"category":"BOX"}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, s.credits("alice"))
}

func TestRoutesRequireRole(t *testing.T) {
	s := newServer(t)
	s.seed()

	rec := s.do(http.MethodGet, "/api/v1/user/me", "", "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/user/me", "garbage", "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/user/me", s.token("alice", models.RoleUser), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/users", s.token("alice", models.RoleUser), "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/user/me", s.token("admin", models.RoleAdmin), "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestAdminFlow(t *testing.T) {
	s := newServer(t)
	admins, err := do.Invoke[*services.ServiceAdmin](s.container)
	require.NoError(t, err)
	require.NoError(t, admins.Bootstrap(context.Background(), "admin", "admin123"))

	rec := s.do(http.MethodPost, "/api/v1/admin/login", "", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := s.token("admin", models.RoleAdmin)

	rec = s.do(http.MethodPost, "/api/v1/admin/users", token, `{"id":"bob","password":"pw","credits":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/admin/credits", token, `{"userId":"bob","amount":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 20, s.credits("bob"))

	rec = s.do(http.MethodPost, "/api/v1/admin/credits", token, `{"userId":"bob","amount":-50}`)
	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, s.credits("bob"))

	rec = s.do(http.MethodGet, "/api/v1/admin/credits/audit", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/gamemodes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PLINKO")

	rec = s.do(http.MethodGet, "/api/v1/config", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.ConfigBackgroundImageURL)

	rec = s.do(http.MethodPost, "/api/v1/admin/rewards", token, `{"name":"Bike","category":"WHEEL","stock":1,"price":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/rewards", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bike")

	rec = s.do(http.MethodDelete, "/api/v1/admin/users/nobody", token, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestPlayAcceptsCategoryInAnyCase(t *testing.T) {
	s := newServer(t)
	s.seed()
	token := s.token("alice", models.RoleUser)

	rec := s.do(http.MethodPost, "/api/v1/user/play", token, `{"category":" box "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Lucky Mug")
	assert.Equal(t, 20-models.DefaultGameModeCost, s.credits("alice"))
}
