package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stackit_backend/internal/config"
	"stackit_backend/internal/model"
	"stackit_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[uint]*model.User

func (s stubUsers) FindByID(id uint) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, model.NotFoundf("user not found")
}

func newUser(id uint, name string, role model.UserRole, banned bool) *model.User {
	u := &model.User{Username: name, Role: role, IsBanned: banned}
	u.ID = id
	return u
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func tokenFor(t *testing.T, cfg *config.Config, u *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(u, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return token
}

func newRouter(cfg *config.Config, users UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		if u := util.GetCurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	}
	r.GET("/me", AuthMiddleware(cfg, users), whoami)
	r.GET("/maybe", TryAuthMiddleware(cfg, users), whoami)
	r.GET("/mod", AuthMiddleware(cfg, users), RoleMiddleware(model.Moderator), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	alice := newUser(1, "alice", model.Member, false)
	r := newRouter(cfg, stubUsers{1: alice})

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "not-a-token").Code)

	w := do(r, "/me", tokenFor(t, cfg, alice))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	// WebSocket 握手通过查询参数携带 token
	w = do(r, "/me?token="+tokenFor(t, cfg, alice), "")
	assert.Equal(t, http.StatusOK, w.Code)

	ghost := newUser(9, "ghost", model.Member, false)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", tokenFor(t, cfg, ghost)).Code)
}

func TestTryAuthMiddlewareFallsBackToAnonymous(t *testing.T) {
	cfg := testConfig()
	alice := newUser(1, "alice", model.Member, false)
	r := newRouter(cfg, stubUsers{1: alice})

	w := do(r, "/maybe", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/maybe", tokenFor(t, cfg, alice))
	assert.Equal(t, "alice", w.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	member := newUser(1, "alice", model.Member, false)
	mod := newUser(2, "carol", model.Moderator, false)
	admin := newUser(3, "root", model.Admin, false)
	bannedMod := newUser(4, "dave", model.Moderator, true)
	r := newRouter(cfg, stubUsers{1: member, 2: mod, 3: admin, 4: bannedMod})

	assert.Equal(t, http.StatusForbidden, do(r, "/mod", tokenFor(t, cfg, member)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/mod", tokenFor(t, cfg, mod)).Code)
	assert.Equal(t, http.StatusOK, do(r, "/mod", tokenFor(t, cfg, admin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/mod", tokenFor(t, cfg, bannedMod)).Code)
}

func TestRoleMiddlewareReadsCurrentRole(t *testing.T) {
	cfg := testConfig()
	carol := newUser(2, "carol", model.Moderator, false)
	token := tokenFor(t, cfg, carol)

	// 令牌签发后被降级，以数据库中的角色为准
	demoted := newUser(2, "carol", model.Member, false)
	r := newRouter(cfg, stubUsers{2: demoted})
	assert.Equal(t, http.StatusForbidden, do(r, "/mod", token).Code)
}
