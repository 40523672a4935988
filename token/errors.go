package token

import "errors"

var (
	// Address validation errors
	ErrInvalidAddress = errors.New("token: invalid address")

	// Balance and allowance errors
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")

	// Access control errors
	ErrUnauthorized = errors.New("token: caller is not the owner")
)
