package logging

import (
	"errors"
	"sync"
	"time"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/grussorusso/archbench/internal/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var NotExistingLog = errors.New("no log for the requested operation")

// Init installs the global zap logger according to the configuration.
func Init() (*zap.Logger, error) {
	return NewZap(config.GetString(config.LOGGING_LEVEL, "info"), config.GetBool(config.LOGGING_DEVELOPMENT, false))
}

func NewZap(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// Logger keeps the recent performance records of every operation.
type Logger struct {
	logs map[string]*Log
	mtx  sync.RWMutex
	stop chan struct{}
	once sync.Once
}

func NewLogger() *Logger {
	return &Logger{logs: make(map[string]*Log), stop: make(chan struct{})}
}

func (logger *Logger) Exists(operation string) bool {
	logger.mtx.RLock()
	defer logger.mtx.RUnlock()
	_, ok := logger.logs[operation]
	return ok
}

// Record stores m in the log of its operation, creating the log if needed.
func (logger *Logger) Record(m *metrics.PerformanceMetrics) {
	if m == nil {
		return
	}
	logger.mtx.Lock()
	l, ok := logger.logs[m.Operation]
	if !ok {
		l = new(Log)
		logger.logs[m.Operation] = l
	}
	logger.mtx.Unlock()

	l.Update(m)
	zap.L().Debug("Recorded report", zap.String("operation", m.Operation), zap.Bool("cold_start", m.ColdStart))
}

// GetLogStatus returns the statistics of a single operation.
func (logger *Logger) GetLogStatus(operation string) (*LogStatus, error) {
	logger.mtx.RLock()
	defer logger.mtx.RUnlock()
	l, ok := logger.logs[operation]
	if !ok {
		return nil, NotExistingLog
	}
	return l.GetLogStatus(), nil
}

// GetAllLogStatus returns the statistics of every operation seen so far.
func (logger *Logger) GetAllLogStatus() map[string]*LogStatus {
	logger.mtx.RLock()
	defer logger.mtx.RUnlock()
	out := make(map[string]*LogStatus, len(logger.logs))
	for op, l := range logger.logs {
		out[op] = l.GetLogStatus()
	}
	return out
}

// CleanUpLog deletes all information stored into the logger.
func (logger *Logger) CleanUpLog() {
	logger.mtx.Lock()
	defer logger.mtx.Unlock()
	for k := range logger.logs {
		delete(logger.logs, k)
	}
}

// Run drops expired reports periodically until Stop is called.
func (logger *Logger) Run() {
	ticker := time.NewTicker(time.Duration(config.GetInt(config.LOGGING_EXPIRATION, 3)) * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-logger.stop:
			return
		case <-ticker.C:
			logger.mtx.RLock()
			for _, l := range logger.logs {
				l.CleanupExpiredReports()
			}
			logger.mtx.RUnlock()
		}
	}
}

func (logger *Logger) Stop() {
	logger.once.Do(func() { close(logger.stop) })
}
