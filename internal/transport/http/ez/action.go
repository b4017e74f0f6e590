package ez

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-api-demo/internal/domain"
	resp "user-api-demo/internal/transport/http/response"
)

func init() {
	// 多余字段直接拒绝（例如 POST 里带 id）
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(tagName)
	}
}

// tagName 校验错误里使用 json/uri/form 名称而非 Go 字段名
func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "uri", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

// 绑定来源，可组合：BindURI | BindJSON
type Binder uint8

const (
	BindNone  Binder = 0
	BindURI   Binder = 1 << 0 // 从路径参数 :id 绑定
	BindQuery Binder = 1 << 1 // 从 URL ?a=b 绑定
	BindJSON  Binder = 1 << 2 // 从 JSON 绑定
)

// 统一错误对象
type AErr struct {
	Code    int
	Msg     string
	Details any   // 422 字段级错误
	Body    any   // 非空时原样作为响应体
	Err     error // 仅记录日志，不返回给调用方
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func NotFound(reason string) error {
	return &AErr{Code: http.StatusNotFound, Msg: reason, Body: resp.Reason(reason)}
}
func Validation(details any) error {
	return &AErr{Code: http.StatusUnprocessableEntity, Details: details}
}
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/:userId"
	Binder  Binder
	Status  int  // 成功状态码，默认 200
	Empty   bool // 成功时只写状态码
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 先绑定并校验入参，再执行 Handler，错误在此统一映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, &in, a.Binder); err != nil {
			e.fail(c, err)
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		if a.Empty {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

// bind 路径/查询参数只做映射，最后统一校验一次
func bind(c *gin.Context, in any, b Binder) error {
	if b&BindURI != 0 {
		params := make(map[string][]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = []string{p.Value}
		}
		if err := binding.MapFormWithTag(in, params, "uri"); err != nil {
			return bindError("path", err)
		}
	}
	if b&BindQuery != 0 {
		if err := binding.MapFormWithTag(in, c.Request.URL.Query(), "form"); err != nil {
			return bindError("query", err)
		}
	}
	if b&BindJSON != 0 {
		// ShouldBindJSON 自带结构体校验
		if err := c.ShouldBindJSON(in); err != nil {
			return bindError("requestBody", err)
		}
		return nil
	}
	if b == BindNone {
		return nil
	}
	if err := binding.Validator.ValidateStruct(in); err != nil {
		return bindError("request", err)
	}
	return nil
}

func bindError(section string, err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Err: err}
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		details := make(map[string]domain.FieldViolation, len(ves))
		for _, fe := range ves {
			details[fe.Field()] = domain.FieldViolation{Message: ruleMessage(fe), Value: fe.Value()}
		}
		return Validation(details)
	}
	return Validation(map[string]domain.FieldViolation{section: {Message: err.Error()}})
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag())
	}
}

// fail 错误映射：AErr > 业务校验错误 > 500
func (e EZ) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *AErr
	if errors.As(err, &ae) {
		switch {
		case ae.Code >= http.StatusInternalServerError:
			e.l.Error("action failed", zap.String("path", c.FullPath()), zap.String("msg", ae.Msg), zap.Error(ae.Err))
			c.JSON(ae.Code, resp.Error(ae.Code, ""))
		case ae.Body != nil:
			c.JSON(ae.Code, ae.Body)
		case ae.Code == http.StatusUnprocessableEntity:
			c.JSON(ae.Code, resp.Validation(ae.Details))
		default:
			c.JSON(ae.Code, resp.Error(ae.Code, ae.Msg))
		}
		return
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, resp.Validation(ve.Fields))
		return
	}

	e.l.Error("unhandled action error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, ""))
}
