package badger

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// storeLogger routes badger's internal logging through zap under a "badger"
// sub-logger. Badger reports routine compaction and value-log activity at
// info; the adapter maps that to debug and keeps warnings and errors at
// their own levels.
type storeLogger struct {
	logger *zap.Logger
}

var _ badgerdb.Logger = (*storeLogger)(nil)

func newStoreLogger(l *zap.Logger) *storeLogger {
	return &storeLogger{logger: l.Named("badger")}
}

func (s *storeLogger) Errorf(format string, args ...interface{}) {
	s.logger.Error(fmt.Sprintf(format, args...))
}

func (s *storeLogger) Warningf(format string, args ...interface{}) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}

func (s *storeLogger) Infof(format string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func (s *storeLogger) Debugf(format string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}
