package s3

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go/logging"
)

// s3Logger forwards sdk messages to the debug log.
// Request dumps span multiple lines, every line is logged separately so
// the output stays readable with the log prefix.
type s3Logger struct {
	logger Logger
}

func (l *s3Logger) Logf(classification logging.Classification, format string, v ...any) {
	prefix := "s3: "
	if classification == logging.Warn {
		prefix = "s3: warning: "
	}

	msg := strings.TrimRight(fmt.Sprintf(format, v...), "\r\n")
	for _, line := range strings.Split(msg, "\n") {
		l.logger.Debugf("%s%s", prefix, strings.TrimRight(line, "\r"))
	}
}
