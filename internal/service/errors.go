package service

import "net/http"

// Error 携带固定 HTTP 状态码的业务错误,由 handler 统一转换为响应 envelope。
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidInput     = &Error{Status: http.StatusBadRequest, Message: "invalid input"}
	ErrInvalidToken     = &Error{Status: http.StatusUnauthorized, Message: "invalid token"}
	ErrAccessDenied     = &Error{Status: http.StatusForbidden, Message: "access denied"}
	ErrUserNotFound     = &Error{Status: http.StatusNotFound, Message: "user not found"}
	ErrRoomNotFound     = &Error{Status: http.StatusNotFound, Message: "room not found"}
	ErrChatNotFound     = &Error{Status: http.StatusNotFound, Message: "chat not found"}
	ErrUsernameConflict = &Error{Status: http.StatusConflict, Message: "username taken"}
)

// authorize 是所有权检查的统一判定:资源持有者与请求者不一致即拒绝。
func authorize(ownerID, actorID uint) error {
	if ownerID != actorID {
		return ErrAccessDenied
	}
	return nil
}
