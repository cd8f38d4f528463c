package bizcontext

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не существует
	ErrBusinessNotFound = errors.New("bizcontext.service: business not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bizcontext.service: internal error")
)
