package logger

import "go.uber.org/zap"

// Log is a no-op until Init is called, so packages can log during tests
// without any setup.
var Log = zap.NewNop()

func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
