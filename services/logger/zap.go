package logsvc

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a JSON production logger for the QA and PROD envs and a colored console one otherwise.
func NewZapLogger(env string) *zap.Logger {
	var config zap.Config

	if isProduction(env) {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func isProduction(env string) bool {
	switch strings.ToUpper(env) {
	case "PROD", "PRODUCTION", "QA":
		return true
	}
	return false
}
