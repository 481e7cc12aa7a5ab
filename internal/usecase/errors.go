package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// Noticeは画面に出す通知
// 重複(既に追加済みなど)はエラーではなくinfoで返す
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
)

func successNotice(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func infoNotice(msg string) Notice    { return Notice{Level: NoticeInfo, Message: msg} }
