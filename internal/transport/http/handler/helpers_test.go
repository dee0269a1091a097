package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-gin-user-crud/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetUserList(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) SaveUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserService) DeleteUsers(ctx context.Context, ids []int) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// rendered 记录一次 c.HTML 调用的视图名和模型
type rendered struct {
	Name  string
	Model gin.H
}

type recordingRender struct {
	mu    sync.Mutex
	calls []rendered
}

func (r *recordingRender) Instance(name string, data any) render.Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	model, _ := data.(gin.H)
	r.calls = append(r.calls, rendered{Name: name, Model: model})
	return render.Data{ContentType: "text/html; charset=utf-8", Data: []byte(name)}
}

func (r *recordingRender) last(t *testing.T) rendered {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.calls, "no view rendered")
	return r.calls[len(r.calls)-1]
}

func (r *recordingRender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func testUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Taro", Gender: domain.GenderMale, Age: 27, Email: "taro@x.com"},
		{ID: 2, Name: "Jiro", Gender: domain.GenderMale, Age: 22, Email: "jiro@x.com"},
		{ID: 3, Name: "Hanako", Gender: domain.GenderFemale, Age: 25, Email: "hanako@x.com"},
	}
}

type webFixture struct {
	svc    *mockUserService
	views  *recordingRender
	engine *gin.Engine
}

func newWebFixture() *webFixture {
	f := &webFixture{svc: &mockUserService{}, views: &recordingRender{}}
	f.engine = gin.New()
	f.engine.HTMLRender = f.views
	NewUserHandler(f.svc, nil).Mount(f.engine.Group(""))
	return f
}

func (f *webFixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (f *webFixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}
