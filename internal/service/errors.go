package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate resource")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account inactive")
	ErrAccountLocked       = errors.New("account locked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrIllegalState        = errors.New("illegal state")
)
