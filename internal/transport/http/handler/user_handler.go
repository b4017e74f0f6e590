package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-api-demo/internal/domain"
	"user-api-demo/internal/service"
	httpez "user-api-demo/internal/transport/http/ez"
)

// NotFoundReason 查询/删除不存在的用户时返回的 reason
const NotFoundReason = "User Doesn't Exist. Please provide a valid id"

// UserHandler /users 路由表
type UserHandler struct {
	svc      *service.UserService
	log      *zap.Logger
	notFound func(id int64) error
}

type Option func(*UserHandler)

// WithNotFound 自定义 404 响应（返回的 error 建议用 httpez.NotFound 构造）
func WithNotFound(fn func(id int64) error) Option {
	return func(h *UserHandler) { h.notFound = fn }
}

func NewUserHandler(svc *service.UserService, l *zap.Logger, opts ...Option) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	h := &UserHandler{
		svc: svc,
		log: l,
		notFound: func(int64) error {
			return httpez.NotFound(NotFoundReason)
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// userPath 只要求能解析为整数；0 和负数交给仓储判定为不存在
type userPath struct {
	UserID int64 `uri:"userId" json:"-"`
}

type listQuery struct {
	Name string `form:"name"`
	Role string `form:"role"`
}

type userBody struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

type updateIn struct {
	userPath
	userBody
}

// Priority 参与 router 的挂载排序
func (h *UserHandler) Priority() int { return 10 }

// MountAPI 挂到 /users
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/users"), h.log)

	// GET /users/:userId
	httpez.RegisterAction[userPath, domain.User](ez, httpez.Action[userPath, domain.User]{
		Method: http.MethodGet,
		Path:   "/:userId",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *userPath) (domain.User, error) {
			u, err := h.svc.GetUser(in.UserID)
			if err != nil {
				return domain.User{}, h.mapErr(in.UserID, err)
			}
			return u, nil
		},
	})

	// GET /users?name=&role=
	httpez.RegisterAction[listQuery, []domain.User](ez, httpez.Action[listQuery, []domain.User]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQuery) ([]domain.User, error) {
			return h.svc.ListUsers(domain.UserFilter{Name: in.Name, Role: in.Role}), nil
		},
	})

	// DELETE /users/:userId
	httpez.RegisterAction[userPath, string](ez, httpez.Action[userPath, string]{
		Method: http.MethodDelete,
		Path:   "/:userId",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *userPath) (string, error) {
			if _, err := h.svc.DeleteUser(in.UserID); err != nil {
				return "", h.mapErr(in.UserID, err)
			}
			return "Success", nil
		},
	})

	// POST /users
	httpez.RegisterAction[userBody, struct{}](ez, httpez.Action[userBody, struct{}]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Empty:  true,
		Handler: func(c *gin.Context, in *userBody) (struct{}, error) {
			_, err := h.svc.CreateUser(in.Name, in.Role)
			return struct{}{}, err
		},
	})

	// PUT /users/:userId 沿用创建的 201
	httpez.RegisterAction[updateIn, struct{}](ez, httpez.Action[updateIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/:userId",
		Binder: httpez.BindURI | httpez.BindJSON,
		Status: http.StatusCreated,
		Empty:  true,
		Handler: func(c *gin.Context, in *updateIn) (struct{}, error) {
			if _, err := h.svc.UpdateUser(in.UserID, in.Name, in.Role); err != nil {
				return struct{}{}, h.mapErr(in.UserID, err)
			}
			return struct{}{}, nil
		},
	})
}

// mapErr 只翻译 NotFound，其它错误交给 ez 统一处理
func (h *UserHandler) mapErr(id int64, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return h.notFound(id)
	}
	return err
}
