package logging

import (
	"errors"

	"github.com/fadedpez/friendbet/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Development uses the console encoder;
// every other environment logs JSON. Service and environment are attached
// to every entry.
func New(serviceName, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "development" || env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	)
}

// ErrorFields returns structured fields describing err. BetErrors contribute
// their code and cause.
func ErrorFields(err error) []zap.Field {
	var betErr *types.BetError
	if errors.As(err, &betErr) {
		fields := []zap.Field{
			zap.String("code", string(betErr.Code)),
			zap.String("message", betErr.Message),
		}
		if betErr.Err != nil {
			fields = append(fields, zap.NamedError("cause", betErr.Err))
		}
		return fields
	}
	return []zap.Field{zap.Error(err)}
}

// LogError logs err at a level matching its code: caller mistakes at warn,
// everything else at error
func LogError(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, ErrorFields(err)...)
	switch types.CodeOf(err) {
	case types.ErrInternalError:
		logger.Error(msg, fields...)
	default:
		logger.Warn(msg, fields...)
	}
}
