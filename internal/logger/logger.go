package logger

import "go.uber.org/zap"

// New builds the service logger. Development mode logs human readable
// output at debug level; otherwise JSON at info level.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

