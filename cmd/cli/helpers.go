package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/pkg/utils/logging"
)

func initLogger(command string) (*zap.Logger, error) {
	return logging.InitLogger("guardplan_" + command)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates must be YYYY-MM-DD, got %q", value)
	}
	return date, nil
}
