// FILE: logdot/src/internal/core/const.go
package core

// Ingestion API limits
const (
	DefaultMaxMessageBytes   = 16000
	MaxExceptionMessageBytes = 1000
	MaxStackBytes            = 10000
	MaxPathBytes             = 500
)

const TruncationMarker = "... [truncated]"

// Tag keys and values stamped by the capture layer and middleware
const (
	TagSource           = "source"
	TagLoggerName       = "logger_name"
	TagPathname         = "pathname"
	TagLineno           = "lineno"
	TagFuncName         = "func_name"
	TagExceptionType    = "exception_type"
	TagExceptionMessage = "exception_message"
	TagStack            = "stack"

	SourcePrint      = "print"
	SourceSlog       = "go_slog"
	SourceMiddleware = "http_middleware"
)
