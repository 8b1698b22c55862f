// Package apperrors implements the core's tagged-variant error taxonomy.
// It follows the wrap/context/stack shape of a hand-rolled error service,
// generalized from team/game context to the error kinds the core needs.
package apperrors

import (
	"fmt"
	"runtime"
)

// Kind identifies one of the core's error variants. Call sites switch on
// Kind rather than on Go type to decide propagation vs. downgrade.
type Kind string

const (
	KindNetworkTimeout        Kind = "NetworkTimeout"
	KindNetworkConnection     Kind = "NetworkConnection"
	KindAPIFetch              Kind = "ApiFetch"
	KindAPINotFound           Kind = "ApiNotFound"
	KindAPIRateLimit          Kind = "ApiRateLimit"
	KindAPIClientError        Kind = "ApiClientError"
	KindAPIServerError        Kind = "ApiServerError"
	KindAPIServiceUnavailable Kind = "ApiServiceUnavailable"
	KindAPINoData             Kind = "ApiNoData"
	KindAPIMalformedJSON      Kind = "ApiMalformedJson"
	KindAPIUnexpectedStruct   Kind = "ApiUnexpectedStructure"
	KindAPITournamentNotFound Kind = "ApiTournamentNotFound"
	KindAPIGameNotFound       Kind = "ApiGameNotFound"
	KindAPISeasonNotFound     Kind = "ApiSeasonNotFound"
	KindDateTimeParse         Kind = "DateTimeParse"
	KindConfigError           Kind = "ConfigError"
)

// AppError is the single error type for the core; Kind distinguishes the
// variants.
type AppError struct {
	Kind    Kind
	URL     string
	Status  int
	Message string
	Err     error
	stack   string
}

func (e *AppError) Error() string {
	if e.URL != "" {
		if e.Status != 0 {
			return fmt.Sprintf("%s: %s (url=%s status=%d)", e.Kind, e.Message, e.URL, e.Status)
		}
		return fmt.Sprintf("%s: %s (url=%s)", e.Kind, e.Message, e.URL)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Caller returns the file:line that constructed the error, for
// diagnostic logging.
func (e *AppError) Caller() string { return e.stack }

func newWithCaller(kind Kind, url, message string, status int, err error) *AppError {
	_, file, line, ok := runtime.Caller(2)
	stack := ""
	if ok {
		stack = fmt.Sprintf("%s:%d", file, line)
	}
	return &AppError{Kind: kind, URL: url, Status: status, Message: message, Err: err, stack: stack}
}

// AsKind reports whether err is an *AppError of the given kind.
func AsKind(err error, kind Kind) bool {
	var ae *AppError
	for err != nil {
		if a, ok := err.(*AppError); ok {
			ae = a
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return ae != nil && ae.Kind == kind
}

func NewNetworkTimeout(url string) *AppError {
	return newWithCaller(KindNetworkTimeout, url, "request timed out", 0, nil)
}

func NewNetworkConnection(url, message string) *AppError {
	return newWithCaller(KindNetworkConnection, url, message, 0, nil)
}

func NewAPIFetch(url string, err error) *AppError {
	return newWithCaller(KindAPIFetch, url, "request failed", 0, err)
}

func NewAPINotFound(url string) *AppError {
	return newWithCaller(KindAPINotFound, url, "resource not found", 404, nil)
}

func NewAPIRateLimit(url string) *AppError {
	return newWithCaller(KindAPIRateLimit, url, "rate limited", 429, nil)
}

func NewAPIClientError(url string, status int) *AppError {
	return newWithCaller(KindAPIClientError, url, "client error", status, nil)
}

func NewAPIServerError(url string, status int) *AppError {
	return newWithCaller(KindAPIServerError, url, "server error", status, nil)
}

func NewAPIServiceUnavailable(url string, status int) *AppError {
	return newWithCaller(KindAPIServiceUnavailable, url, "service unavailable", status, nil)
}

func NewAPINoData(url string) *AppError {
	return newWithCaller(KindAPINoData, url, "empty response body", 0, nil)
}

func NewAPIMalformedJSON(url string) *AppError {
	return newWithCaller(KindAPIMalformedJSON, url, "response body is not JSON", 0, nil)
}

func NewAPIUnexpectedStructure(url string, err error) *AppError {
	return newWithCaller(KindAPIUnexpectedStruct, url, "response JSON did not match expected shape", 0, err)
}

func NewAPITournamentNotFound(tournament string) *AppError {
	return newWithCaller(KindAPITournamentNotFound, "", "tournament not found: "+tournament, 0, nil)
}

func NewAPIGameNotFound(gameID int64) *AppError {
	return newWithCaller(KindAPIGameNotFound, "", fmt.Sprintf("game not found: %d", gameID), 0, nil)
}

func NewAPISeasonNotFound(season int) *AppError {
	return newWithCaller(KindAPISeasonNotFound, "", fmt.Sprintf("season not found: %d", season), 0, nil)
}

func NewDateTimeParse(value string, err error) *AppError {
	return newWithCaller(KindDateTimeParse, "", "could not parse date/time: "+value, 0, err)
}

func NewConfigError(message string) *AppError {
	return newWithCaller(KindConfigError, "", message, 0, nil)
}

// FormatChain renders err and every wrapped cause beneath it, one per
// line, for diagnostic logging.
func FormatChain(err error) string {
	msg := ""
	for err != nil {
		if msg != "" {
			msg += "\n  caused by: "
		}
		msg += err.Error()
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return msg
}

// FromStatus maps a non-2xx HTTP status to the matching AppError kind.
func FromStatus(url string, status int) *AppError {
	switch {
	case status == 404:
		return NewAPINotFound(url)
	case status == 429:
		return NewAPIRateLimit(url)
	case status == 502 || status == 503:
		return NewAPIServiceUnavailable(url, status)
	case status >= 500:
		return NewAPIServerError(url, status)
	case status >= 400:
		return NewAPIClientError(url, status)
	default:
		return NewAPIFetch(url, fmt.Errorf("unexpected status %d", status))
	}
}
