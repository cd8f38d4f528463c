package policy

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не существует
	ErrBusinessNotFound = errors.New("policy.service: business not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policy.service: internal error")
)
