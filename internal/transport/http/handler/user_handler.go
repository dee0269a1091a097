package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-user-crud/internal/domain"
	"go-gin-user-crud/internal/feature/user"
	"go-gin-user-crud/internal/transport/http/view"
)

const listPath = "/user/list"

// UserService 是 UserHandler / AdminHandler 依赖的持久化服务
type UserService interface {
	GetUserList(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	SaveUser(ctx context.Context, u *domain.User) error
	DeleteUsers(ctx context.Context, ids []int) (int64, error)
}

// UserHandler 服务端渲染的用户管理页面
type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, l *zap.Logger) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Mount(g *gin.RouterGroup) {
	u := g.Group("/user")
	u.GET("/list", h.GetList)
	u.POST("/list", h.PostList)
	u.GET("/register", h.GetRegister)
	u.POST("/register", h.PostRegister)
	u.GET("/update/", h.GetUpdateBlank)
	u.GET("/update/:id/", h.GetUpdate)
	u.POST("/update/:id/", h.PostUpdate)
}

func (h *UserHandler) GetList(c *gin.Context) {
	users, err := h.svc.GetUserList(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, view.UserList, gin.H{"userlist": users})
}

func (h *UserHandler) GetRegister(c *gin.Context) {
	c.HTML(http.StatusOK, view.UserRegister, formModel(user.Form{}, nil))
}

func (h *UserHandler) PostRegister(c *gin.Context) {
	f, ok := h.bindForm(c)
	if !ok {
		return
	}
	f.ID = 0 // 新建时 id 由存储分配
	if errs := user.Validate(&f); !errs.Empty() {
		c.HTML(http.StatusOK, view.UserRegister, formModel(f, errs))
		return
	}
	if !h.save(c, &f) {
		return
	}
	c.Redirect(http.StatusFound, listPath)
}

// GetUpdate 从列表页进入：按 id 取出当前记录
func (h *UserHandler) GetUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.renderEditForm(c, id)
}

// GetUpdateBlank 无 id 时渲染空表单，不访问存储
func (h *UserHandler) GetUpdateBlank(c *gin.Context) {
	h.renderFormWithErrors(c, user.Form{}, nil)
}

func (h *UserHandler) PostUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	f, ok := h.bindForm(c)
	if !ok {
		return
	}
	f.ID = id // 路径 id 覆盖表单里的 id
	if errs := user.Validate(&f); !errs.Empty() {
		h.renderFormWithErrors(c, f, errs)
		return
	}
	if !h.save(c, &f) {
		return
	}
	c.Redirect(http.StatusFound, listPath)
}

// PostList 列表页的批量删除，只接受带 deleteRun 参数的提交
func (h *UserHandler) PostList(c *gin.Context) {
	if !hasParam(c, "deleteRun") {
		h.renderError(c, http.StatusBadRequest, "unsupported list action")
		return
	}
	var raw []string
	raw = append(raw, c.PostFormArray("idck")...)
	raw = append(raw, c.QueryArray("idck")...)
	ids := make([]int, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.Atoi(s)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, fmt.Sprintf("invalid id %q", s))
			return
		}
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		if _, err := h.svc.DeleteUsers(c.Request.Context(), ids); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, listPath)
}

func (h *UserHandler) renderEditForm(c *gin.Context, id int) {
	u, err := h.svc.GetUser(c.Request.Context(), id)
	if errors.Is(err, domain.ErrUserNotFound) {
		h.renderError(c, http.StatusNotFound, fmt.Sprintf("user %d not found", id))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, view.UserUpdate, formModel(user.FromUser(u), nil))
}

// renderFormWithErrors 回显用户刚提交的内容，不重新读取存储
func (h *UserHandler) renderFormWithErrors(c *gin.Context, f user.Form, errs user.FieldErrors) {
	c.HTML(http.StatusOK, view.UserUpdate, formModel(f, errs))
}

// formModel 登记页与更新页共用的视图模型
func formModel(f user.Form, errs user.FieldErrors) gin.H {
	if errs == nil {
		errs = user.FieldErrors{}
	}
	return gin.H{"user": f, "errors": errs}
}

func (h *UserHandler) bindForm(c *gin.Context) (user.Form, bool) {
	var f user.Form
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, http.StatusBadRequest, "malformed form")
		return f, false
	}
	f.Normalize()
	return f, true
}

func (h *UserHandler) save(c *gin.Context, f *user.Form) bool {
	u, err := f.ToUser()
	if err != nil {
		h.fail(c, err)
		return false
	}
	err = h.svc.SaveUser(c.Request.Context(), u)
	if errors.Is(err, domain.ErrUserNotFound) {
		h.renderError(c, http.StatusNotFound, fmt.Sprintf("user %d not found", u.ID))
		return false
	}
	if err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

func (h *UserHandler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.renderError(c, http.StatusBadRequest, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

func hasParam(c *gin.Context, key string) bool {
	if _, ok := c.GetPostForm(key); ok {
		return true
	}
	_, ok := c.GetQuery(key)
	return ok
}

func (h *UserHandler) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, view.Error, gin.H{"status": status, "message": msg})
	c.Abort()
}

// fail 未预期的错误交给 gin 默认的 500 处理
func (h *UserHandler) fail(c *gin.Context, err error) {
	h.log.Error("user handler failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}
