package errors

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code.
type ErrorCode string

const (
	// GeneralInternalServerError is a generic internal server error code.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError is a generic bad request error code.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError is a generic not found error code.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError is a generic repository error code.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// MissingRequiredFieldError is returned when a mandatory request field is empty.
	MissingRequiredFieldError ErrorCode = "missing_required_field_error"
	// InvalidQuantityError is returned when the requested quantity is below one.
	InvalidQuantityError ErrorCode = "invalid_quantity_error"
	// ItemNotFoundError is returned when an item does not exist in the durable store.
	ItemNotFoundError ErrorCode = "item_not_found_error"
	// PurchaseFailedError is returned when a purchase failed after the cache was compensated.
	PurchaseFailedError ErrorCode = "purchase_failed_error"
	// StockCacheError is returned when the stock cache script replies with an unexpected value.
	StockCacheError ErrorCode = "stock_cache_error"
	// RateLimitError is returned when the rate limit script replies with an unexpected value.
	RateLimitError ErrorCode = "rate_limit_error"
	// EventPublishError is returned when an order event cannot be written to the broker.
	EventPublishError ErrorCode = "event_publish_error"

	// RedisConfigError indicates an error in Redis configuration.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError indicates an error connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError indicates an error disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError indicates an error pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"

	// RedisGetError indicates an error getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError indicates an error setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError indicates an error deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisSetNXError indicates an error setting a value with NX in Redis.
	RedisSetNXError ErrorCode = "redis_setnx_error"
	// RedisIncrByError indicates an error incrementing a value in Redis.
	RedisIncrByError ErrorCode = "redis_incrby_error"
	// RedisScriptError indicates an error running a Lua script in Redis.
	RedisScriptError ErrorCode = "redis_script_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether any ErrorDetails were collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// CodeOf walks the error chain and returns the code of the first ErrorDetails found.
// An empty string is returned when the chain carries no code.
func CodeOf(err error) string {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code
	}

	var base *BaseError
	if stderrors.As(err, &base) && base.HasDetails() {
		return base.details[0].Code
	}

	return ""
}
