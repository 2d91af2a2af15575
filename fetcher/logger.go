package fetcher

import (
	"github.com/ytvault/ytvault/pkg/logging"

	"go.uber.org/zap"
)

var logger = logging.Create("fetcher", logging.Dev)

func SetLogger(l *zap.SugaredLogger) {
	logger = l
}
