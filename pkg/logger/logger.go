package logger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry
const ServiceName = "swap-calldata-backend"

var (
	log  *zap.Logger
	once sync.Once
	atom = zap.NewAtomicLevel()

	buildLogger = func(config zap.Config) (*zap.Logger, error) {
		return config.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("service", ServiceName)))
	}
)

type ContextKey string

// RequestIDKey is the typed context key. The plain "request_id" string key
// set by the HTTP middleware is honored as well.
const RequestIDKey ContextKey = "request_id"

// Init initializes the logger. Production uses JSON with ISO8601 timestamps,
// development a colored console encoder.
func Init(env string) {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		atom.SetLevel(config.Level.Level())
		config.Level = atom

		var err error
		log, err = buildLogger(config)
		if err != nil {
			panic(err)
		}
	})
}

// SetLevel changes the minimum enabled level at runtime ("debug", "info", ...)
func SetLevel(level string) error {
	return atom.UnmarshalText([]byte(level))
}

// GetLogger returns the underlying zap logger, or a no-op logger before Init
func GetLogger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// WithContext adds the request id carried by ctx, if any
func WithContext(ctx context.Context) *zap.Logger {
	base := GetLogger()
	if ctx == nil {
		return base
	}
	if reqID := requestID(ctx); reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	if id, ok := ctx.Value(string(RequestIDKey)).(string); ok {
		return id
	}
	return ""
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Info(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Debug(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Warn(msg, fields...)
}

// RequestLog is one served HTTP request
type RequestLog struct {
	Method   string
	Path     string
	Route    string
	Status   int
	Latency  time.Duration
	ClientIP string
	Bytes    int
}

// LogRequest logs a served request. Server errors log at error level and
// client errors at warn level.
func LogRequest(ctx context.Context, r RequestLog) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.String("route", r.Route),
		zap.Int("status", r.Status),
		zap.Duration("latency", r.Latency),
		zap.String("client_ip", r.ClientIP),
		zap.Int("bytes", r.Bytes),
	}

	l := WithContext(ctx)
	switch {
	case r.Status >= 500:
		l.Error("HTTP Request", fields...)
	case r.Status >= 400:
		l.Warn("HTTP Request", fields...)
	default:
		l.Info("HTTP Request", fields...)
	}
}
