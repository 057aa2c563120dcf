package pager

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TimeLog reports how long each stage of a run took at debug level.
type TimeLog struct {
	total time.Duration
	last  time.Time
}

func (t *TimeLog) ResetTime() {
	t.total = 0
	t.last = time.Now()
}

func (t *TimeLog) LogTime(logger *logrus.Logger, stage string) {
	now := time.Now()
	diff := now.Sub(t.last)
	t.last = now
	t.total += diff
	logger.WithFields(logrus.Fields{"total": t.total, "elapsed": diff}).Debug(stage)
}
