// internal/observability/logger.go
package observability

import (
	"strings"

	"github.com/united-manufacturing-hub/umh-utils/logger"
	"go.uber.org/zap"
)

// InitLogger builds the process logger for level (DEVELOPMENT or
// PRODUCTION) and installs it as the zap global.
func InitLogger(level string) *zap.SugaredLogger {
	log := logger.New(strings.ToUpper(level))
	zap.ReplaceGlobals(log.Desugar())
	return log
}
