package errors

import (
	"go.uber.org/zap"
)

// LogError logs an error with its context
func LogError(logger *zap.Logger, err error) {
	if logger == nil {
		logger = DefaultLogger
	}

	var e *Error
	if As(err, &e) {
		fields := []zap.Field{
			zap.String("error_type", string(e.Type)),
			zap.String("message", e.Message),
			zap.String("request_id", e.RequestID),
		}
		if e.StatusCode != 0 {
			fields = append(fields, zap.Int("status_code", e.StatusCode))
		}
		if e.Malformed {
			fields = append(fields, zap.Bool("malformed", true))
		}
		if e.Details != nil {
			fields = append(fields, zap.Any("details", e.Details))
		}
		if e.err != nil {
			fields = append(fields, zap.NamedError("cause", e.err))
		}
		logger.Error("request error", fields...)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
}
