// Package errors provides structured error handling for the bot.
// It defines sentinel errors and helpers for adding context and
// user-facing suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
)

// BotError is the structured error type used across the bot.
type BotError struct {
	Code       string // Machine-readable error code
	Message    string // Human-readable message, safe to show in chat
	Suggestion string // Actionable suggestion for the user
	Cause      error  // Underlying error
}

// Error returns the message. Wrap and WrapAs fold the cause text into
// the message at construction, so appending the cause here would print
// it twice.
func (e *BotError) Error() string {
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for BotError. Two BotErrors match when their
// codes are equal, regardless of wrapping.
func (e *BotError) Is(target error) bool {
	var t *BotError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// UserMessage returns the text to surface in chat: the message plus the
// suggestion when one is present. Collaborator failures wrapped via
// Wrap or WrapAs are already part of the message, so the user sees what
// actually went wrong.
func (e *BotError) UserMessage() string {
	if e.Suggestion != "" {
		return e.Message + "\n" + e.Suggestion
	}
	return e.Message
}

// Sentinel errors.
var (
	ErrNoWallet = &BotError{
		Code:       "NO_WALLET",
		Message:    "you don't have a wallet yet",
		Suggestion: "use /wallet to create or import one",
	}

	ErrInvalidAddress = &BotError{
		Code:    "INVALID_ADDRESS",
		Message: "that doesn't look like a token address",
	}

	ErrInvalidAmount = &BotError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive number",
	}

	ErrInsufficientBalance = &BotError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient balance",
	}

	ErrInvalidPrivateKey = &BotError{
		Code:    "INVALID_PRIVATE_KEY",
		Message: "invalid private key",
	}

	ErrInvalidMnemonic = &BotError{
		Code:    "INVALID_MNEMONIC",
		Message: "invalid mnemonic phrase",
	}

	ErrTokenLookup = &BotError{
		Code:    "TOKEN_LOOKUP_FAILED",
		Message: "could not fetch token information",
	}

	ErrSwapFailed = &BotError{
		Code:    "SWAP_FAILED",
		Message: "swap failed",
	}

	ErrNetwork = &BotError{
		Code:    "NETWORK_ERROR",
		Message: "network communication failed",
	}

	ErrConfigInvalid = &BotError{
		Code:    "CONFIG_INVALID",
		Message: "configuration is invalid",
	}

	ErrTransportToken = &BotError{
		Code:    "TRANSPORT_TOKEN_MISSING",
		Message: "chat transport token is not configured",
	}

	ErrStoreCorrupted = &BotError{
		Code:    "STORE_CORRUPTED",
		Message: "wallet store is corrupted or the passphrase is wrong",
	}
)

// New creates a new BotError with the given code and message.
func New(code, message string) *BotError {
	return &BotError{Code: code, Message: message}
}

// Wrap wraps an error with additional context. BotError codes and
// suggestions survive wrapping.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var be *BotError
	if errors.As(err, &be) {
		return &BotError{
			Code:       be.Code,
			Message:    fmt.Sprintf("%s: %s", msg, be.Message),
			Suggestion: be.Suggestion,
			Cause:      err,
		}
	}

	return &BotError{
		Code:    "GENERAL_ERROR",
		Message: fmt.Sprintf("%s: %v", msg, err),
		Cause:   err,
	}
}

// WrapAs classifies err under a sentinel's code and suggestion while
// keeping the underlying message visible. Use it when a collaborator
// failure should carry a domain code without hiding what went wrong.
func WrapAs(sentinel *BotError, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &BotError{
		Code:       sentinel.Code,
		Message:    fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), err),
		Suggestion: sentinel.Suggestion,
		Cause:      err,
	}
}

// WithSuggestion attaches a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var be *BotError
	if errors.As(err, &be) {
		return &BotError{
			Code:       be.Code,
			Message:    be.Message,
			Suggestion: suggestion,
			Cause:      be.Cause,
		}
	}

	return &BotError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Code returns the error code for an error, or "GENERAL_ERROR" for
// errors that are not BotErrors.
func Code(err error) string {
	var be *BotError
	if errors.As(err, &be) {
		return be.Code
	}
	return "GENERAL_ERROR"
}

// UserMessage extracts the chat-safe text for any error. Non-BotErrors
// fall back to their Error() string so collaborator failures reach the
// user verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BotError
	if errors.As(err, &be) {
		return be.UserMessage()
	}
	return err.Error()
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
