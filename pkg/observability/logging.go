package observability

import (
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "wardflow"

func InitLogger(level string) *zap.SugaredLogger {
	logConfig := zap.NewProductionConfig()
	logConfig.Sampling = nil
	logConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	logConfig.DisableStacktrace = true
	logConfig.InitialFields = map[string]interface{}{"service": serviceName}

	logConfig.Level = zap.NewAtomicLevelAt(DetermineLogLevel(level))

	logger, err := logConfig.Build()
	if err != nil {
		log.Fatal(err)
	}

	return logger.Sugar()
}

// DetermineLogLevel - неизвестный уровень трактуется как info
func DetermineLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "info", "":
		return zap.InfoLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
