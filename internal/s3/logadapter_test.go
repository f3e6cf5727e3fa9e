package s3

import (
	"fmt"
	"testing"

	"github.com/aws/smithy-go/logging"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Debugf(format string, v ...any) {
	l.msgs = append(l.msgs, fmt.Sprintf(format, v...))
}

func TestLoggerSplitsMultilineMessages(t *testing.T) {
	var rec recordingLogger
	l := s3Logger{logger: &rec}

	l.Logf(logging.Debug, "Request\r\nGET /%s HTTP/1.1\r\n\r\n", "bucket")
	l.Logf(logging.Warn, "retrying")

	assert.Equal(t, []string{
		"s3: Request",
		"s3: GET /bucket HTTP/1.1",
		"s3: warning: retrying",
	}, rec.msgs)
}
