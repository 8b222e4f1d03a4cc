package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeNoSecretKey    = 1001 // 房间未完成 setup
	ErrCodeRoomNotCreated = 2001 // /newroom 没有返回房间
	ErrCodeEmptySnapshot  = 2002 // 同步时服务端没有返回房间数据
	ErrCodeRoomMismatch   = 2003 // 同步返回的房间 ID 与本地不一致
	ErrCodeTransport      = 5000
)

// SDKError SDK 本地错误
type SDKError struct {
	Code    int
	Message string
}

func (e *SDKError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrNoSecretKey    = &SDKError{Code: ErrCodeNoSecretKey, Message: "room secret key is not set, create the room through a session first"}
	ErrRoomNotCreated = &SDKError{Code: ErrCodeRoomNotCreated, Message: "failed to create room: service returned no room"}
	ErrEmptySnapshot  = &SDKError{Code: ErrCodeEmptySnapshot, Message: "failed to sync room: service returned no room data"}
	ErrRoomMismatch   = &SDKError{Code: ErrCodeRoomMismatch, Message: "failed to sync room: service returned a different room"}
)

// maxBodyExcerpt 错误信息中保留的响应体长度
const maxBodyExcerpt = 256

// HTTPError 非 2xx 响应
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// NewHTTPError 构造 HTTPError，响应体只保留前 maxBodyExcerpt 个字节
func NewHTTPError(method, path string, statusCode int, body []byte) *HTTPError {
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > maxBodyExcerpt {
		excerpt = excerpt[:maxBodyExcerpt] + "..."
	}
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       excerpt,
	}
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Code 返回错误码，便于和 SDKError 统一处理
func (e *HTTPError) Code() int {
	return ErrCodeTransport
}

// IsPrecondition 是否为本地前置条件错误（不应重试）
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoSecretKey)
}

// IsTransport 是否为 HTTP 层错误（调用方可以自行重试）
func IsTransport(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return true
	}
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// Code 提取错误码，未知错误返回 ErrCodeUnknown
func Code(err error) int {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr.Code
	}
	if IsTransport(err) {
		return ErrCodeTransport
	}
	return ErrCodeUnknown
}

// TransportError 请求没有拿到响应（连接失败、ctx 取消等）
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
