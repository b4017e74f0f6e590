package response

import "net/http"

// CodeMsgMap 集中管理 status - message
var CodeMsgMap = map[int]string{
	http.StatusNotFound:              "API endpoint not found",
	http.StatusRequestEntityTooLarge: "Request Entity Too Large",
	http.StatusUnprocessableEntity:   "Validation Failed",
	http.StatusTooManyRequests:       "Too Many Requests",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Server Busy",
	http.StatusGatewayTimeout:        "Timeout",
}

// Message 未登记的状态码退回标准文案
func Message(code int) string {
	if m, ok := CodeMsgMap[code]; ok {
		return m
	}
	return http.StatusText(code)
}
