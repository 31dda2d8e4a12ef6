package auth

import "errors"

var (
	// ErrMissingCredential is returned when a required bearer credential is absent.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential is returned when the credential is malformed or its signature does not verify.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrExpiredCredential is returned when the credential is past its expiry.
	ErrExpiredCredential = errors.New("credential is expired")

	// ErrUnknownSubject is returned when the credential's subject does not resolve to an account.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrUserAccountDisabled is returned when the resolved account's active flag is false.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInsufficientPrivilege is returned when the identity's role does not match the required role.
	ErrInsufficientPrivilege = errors.New("insufficient privilege")

	// ErrInvalidPassword is returned when the provided password is incorrect during login.
	ErrInvalidPassword = errors.New("invalid password")
)
