package response

// ErrorBody 通用错误体：{message, details?}
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ReasonBody 资源不存在时的错误体：{reason}
type ReasonBody struct {
	Reason string `json:"reason"`
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) ErrorBody {
	msg := Message(code)
	if customMsg != "" {
		msg = customMsg
	}
	return ErrorBody{Message: msg}
}

// Validation 422 响应，details 为字段级错误
func Validation(details any) ErrorBody {
	return ErrorBody{Message: CodeMsgMap[422], Details: details}
}

func Reason(reason string) ReasonBody { return ReasonBody{Reason: reason} }
