// Package utils provides shared helpers.
package utils

import "go.uber.org/zap"

// LogError logs an error with an optional message and fields. It is a no-op
// when err is nil so call sites can stay unconditional.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		panic("logger is not initialized")
	}
	if err == nil {
		return
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}
