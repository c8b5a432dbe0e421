package domain

import "errors"

var (
	// Ledger errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCurrencyNotTracked  = errors.New("account does not track this currency")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("cannot transfer to same account")

	// Validation errors
	ErrInvalidGroup = errors.New("invalid account group")
	ErrInvalidType  = errors.New("invalid transaction type")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")

	// Authentication errors
	ErrUserExists   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
