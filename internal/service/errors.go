package service

import (
	"errors"

	"github.com/Skotchmaster/blog_platform/internal/transport"
)

var (
	ErrValidation         = transport.ErrValidation
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrSearchUnavailable  = errors.New("search is not configured")
)
