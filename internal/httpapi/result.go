package httpapi

import (
	"errors"
	"net/http"

	"silent-sos/internal/models"
)

// Result 接口统一响应包
// code 为 ResultSuccess 时 result 携带数据，否则 message 说明失败原因
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message}
}

// writeOk 200 + 成功包
func writeOk[T any](w http.ResponseWriter, result T) {
	writeJSON(w, http.StatusOK, Ok(result))
}

// writeFail 指定状态码的失败包
func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Fail(message))
}

// statusForError 领域错误到 HTTP 状态码：非法输入 400，报警不存在 404，其余 500
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlertNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError 按错误类型写失败包；500 时不回显内部错误，返回 fallback
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		writeFail(w, status, fallback)
		return
	}
	writeFail(w, status, err.Error())
}
