package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	LoggerKey    ContextKey = "logger"
	ActorKey     ContextKey = "actor"
	RequestIDKey ContextKey = "request_id"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
