package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v4"
)

type pgxLogger struct {
	logger Logger
}

func (l *pgxLogger) Log(_ context.Context, level pgx.LogLevel, msg string, data map[string]any) {
	logArgs := make([]any, 2, 2+len(data))
	logArgs[0] = level
	logArgs[1] = msg

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		logArgs = append(logArgs, fmt.Sprintf("%s=%v", k, data[k]))
	}

	l.logger.Debugln(logArgs...)
}
