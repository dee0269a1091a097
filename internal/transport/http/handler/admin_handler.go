package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"go-gin-user-crud/internal/core/auth"
	"go-gin-user-crud/internal/domain"
	httpez "go-gin-user-crud/internal/transport/http/ez"
	mdw "go-gin-user-crud/internal/transport/http/middleware"
	"go-gin-user-crud/pkg/utils"
)

// AdminCredentials 管理员账号来自配置，密码为 bcrypt 串
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type AdminHandler struct {
	svc   UserService
	jwt   *auth.JWTer
	creds AdminCredentials
}

func NewAdminHandler(svc UserService, jwter *auth.JWTer, creds AdminCredentials) *AdminHandler {
	return &AdminHandler{svc: svc, jwt: jwter, creds: creds}
}

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string `json:"token"`
}

type userListOut struct {
	Total int           `json:"total"`
	Items []domain.User `json:"items"`
}

type userListIn struct {
	Gender string `form:"gender" binding:"omitempty,oneof=male female"`
}

type userIDIn struct {
	ID int `uri:"id" binding:"required,min=1"`
}

type deleteIn struct {
	IDs []int `json:"ids" binding:"required,min=1,dive,min=1"`
}

type deleteOut struct {
	Deleted int64 `json:"deleted"`
}

var adminOnly = []string{auth.RoleAdmin}

// Mount 挂载 /auth/login（公开）和 /users（要求 admin 角色）
func (h *AdminHandler) Mount(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[loginIn, loginOut]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  httpez.BindJSON,
		Handler: h.login,
	})

	authed := g.Group("")
	authed.Use(mdw.AuthJWT(h.jwt, ""))
	ez := httpez.New(authed)

	httpez.RegisterAction(ez, httpez.Action[userListIn, userListOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *userListIn) (userListOut, error) {
			users, err := h.svc.GetUserList(c.Request.Context())
			if err != nil {
				return userListOut{}, httpez.Internal("list users failed", err)
			}
			if in.Gender != "" {
				users = lo.Filter(users, func(u domain.User, _ int) bool { return string(u.Gender) == in.Gender })
			}
			if users == nil {
				users = []domain.User{}
			}
			return userListOut{Total: len(users), Items: users}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[userIDIn, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *userIDIn) (*domain.User, error) {
			u, err := h.svc.GetUser(c.Request.Context(), in.ID)
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, httpez.NotFound(fmt.Sprintf("user %d not found", in.ID))
			}
			if err != nil {
				return nil, httpez.Internal("get user failed", err)
			}
			return u, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[deleteIn, deleteOut]{
		Method: http.MethodPost,
		Path:   "/users/delete",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *deleteIn) (deleteOut, error) {
			return h.delete(c, in.IDs)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[userIDIn, deleteOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *userIDIn) (deleteOut, error) {
			out, err := h.delete(c, []int{in.ID})
			if err == nil && out.Deleted == 0 {
				return out, httpez.NotFound(fmt.Sprintf("user %d not found", in.ID))
			}
			return out, err
		},
	})
}

func (h *AdminHandler) delete(c *gin.Context, ids []int) (deleteOut, error) {
	n, err := h.svc.DeleteUsers(c.Request.Context(), ids)
	if err != nil {
		return deleteOut{}, httpez.Internal("delete users failed", err)
	}
	return deleteOut{Deleted: n}, nil
}

func (h *AdminHandler) login(_ *gin.Context, in *loginIn) (loginOut, error) {
	if h.creds.Username == "" || h.creds.PasswordHash == "" {
		return loginOut{}, httpez.Forbidden("admin login disabled")
	}
	if strings.TrimSpace(in.Username) != h.creds.Username || !utils.CheckPassword(in.Password, h.creds.PasswordHash) {
		return loginOut{}, httpez.Unauthorized("invalid credentials")
	}
	tok, err := h.jwt.Issue(h.creds.Username, auth.RoleAdmin)
	if err != nil {
		return loginOut{}, httpez.Internal("issue token failed", err)
	}
	return loginOut{Token: tok}, nil
}
