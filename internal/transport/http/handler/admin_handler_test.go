package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-gin-user-crud/internal/core/auth"
	"go-gin-user-crud/internal/domain"
	"go-gin-user-crud/pkg/utils"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type adminFixture struct {
	svc    *mockUserService
	jwt    *auth.JWTer
	engine *gin.Engine
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	f := &adminFixture{svc: &mockUserService{}, jwt: auth.NewJWTer("jwt-secret", "user-crud-test", time.Hour)}
	f.engine = gin.New()
	NewAdminHandler(f.svc, f.jwt, AdminCredentials{Username: "admin", PasswordHash: hash}).
		Mount(f.engine.Group("/admin/v1"))
	return f
}

func (f *adminFixture) do(t *testing.T, method, path, token string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (f *adminFixture) token(t *testing.T) string {
	t.Helper()
	tok, err := f.jwt.Issue("admin", auth.RoleAdmin)
	require.NoError(t, err)
	return tok
}

func TestAdminLogin(t *testing.T) {
	f := newAdminFixture(t)

	env := f.do(t, http.MethodPost, "/admin/v1/auth/login", "", gin.H{"username": "admin", "password": "s3cret"})
	require.Equal(t, 0, env.Code)
	var out loginOut
	require.NoError(t, json.Unmarshal(env.Data, &out))
	claims, err := f.jwt.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	env = f.do(t, http.MethodPost, "/admin/v1/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, 401, env.Code)

	env = f.do(t, http.MethodPost, "/admin/v1/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, 400, env.Code)
}

func TestAdminLoginDisabledWithoutCredentials(t *testing.T) {
	svc := &mockUserService{}
	r := gin.New()
	NewAdminHandler(svc, auth.NewJWTer("x", "y", time.Hour), AdminCredentials{}).Mount(r.Group("/admin/v1"))
	f := &adminFixture{svc: svc, engine: r}

	env := f.do(t, http.MethodPost, "/admin/v1/auth/login", "", gin.H{"username": "admin", "password": "s3cret"})
	assert.Equal(t, 403, env.Code)
}

func TestAdminUsersRequireToken(t *testing.T) {
	f := newAdminFixture(t)

	env := f.do(t, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, 401, env.Code)

	env = f.do(t, http.MethodGet, "/admin/v1/users", "not-a-token", nil)
	assert.Equal(t, 401, env.Code)

	// 合法 token 但不是 admin 角色
	tok, err := f.jwt.Issue("someone", "viewer")
	require.NoError(t, err)
	env = f.do(t, http.MethodGet, "/admin/v1/users", tok, nil)
	assert.Equal(t, 403, env.Code)
	env = f.do(t, http.MethodPost, "/admin/v1/users/delete", tok, gin.H{"ids": []int{1}})
	assert.Equal(t, 403, env.Code)

	f.svc.AssertNotCalled(t, "GetUserList", mock.Anything)
	f.svc.AssertNotCalled(t, "DeleteUsers", mock.Anything, mock.Anything)
}

func TestAdminListUsers(t *testing.T) {
	f := newAdminFixture(t)
	f.svc.On("GetUserList", mock.Anything).Return(testUsers(), nil)

	env := f.do(t, http.MethodGet, "/admin/v1/users", f.token(t), nil)

	require.Equal(t, 0, env.Code)
	var out userListOut
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, testUsers(), out.Items)

	env = f.do(t, http.MethodGet, "/admin/v1/users?gender=female", f.token(t), nil)
	require.Equal(t, 0, env.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Hanako", out.Items[0].Name)

	env = f.do(t, http.MethodGet, "/admin/v1/users?gender=other", f.token(t), nil)
	assert.Equal(t, 400, env.Code)
}

func TestAdminGetUser(t *testing.T) {
	f := newAdminFixture(t)
	jiro := testUsers()[1]
	f.svc.On("GetUser", mock.Anything, 2).Return(&jiro, nil)
	f.svc.On("GetUser", mock.Anything, 7).Return(nil, domain.ErrUserNotFound)

	env := f.do(t, http.MethodGet, "/admin/v1/users/2", f.token(t), nil)
	require.Equal(t, 0, env.Code)
	var got domain.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, jiro, got)

	env = f.do(t, http.MethodGet, "/admin/v1/users/7", f.token(t), nil)
	assert.Equal(t, 404, env.Code)

	env = f.do(t, http.MethodGet, "/admin/v1/users/0", f.token(t), nil)
	assert.Equal(t, 400, env.Code)
}

func TestAdminDeleteUsers(t *testing.T) {
	f := newAdminFixture(t)
	f.svc.On("DeleteUsers", mock.Anything, []int{1, 3}).Return(int64(2), nil).Once()

	env := f.do(t, http.MethodPost, "/admin/v1/users/delete", f.token(t), gin.H{"ids": []int{1, 3}})
	require.Equal(t, 0, env.Code)
	var out deleteOut
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.EqualValues(t, 2, out.Deleted)

	env = f.do(t, http.MethodPost, "/admin/v1/users/delete", f.token(t), gin.H{"ids": []int{}})
	assert.Equal(t, 400, env.Code)
	f.svc.AssertExpectations(t)
}

func TestAdminDeleteSingleUser(t *testing.T) {
	f := newAdminFixture(t)
	f.svc.On("DeleteUsers", mock.Anything, []int{2}).Return(int64(1), nil).Once()
	f.svc.On("DeleteUsers", mock.Anything, []int{8}).Return(int64(0), nil).Once()

	env := f.do(t, http.MethodDelete, "/admin/v1/users/2", f.token(t), nil)
	require.Equal(t, 0, env.Code)

	env = f.do(t, http.MethodDelete, "/admin/v1/users/8", f.token(t), nil)
	assert.Equal(t, 404, env.Code)
	f.svc.AssertExpectations(t)
}
