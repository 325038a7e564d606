package calculation

import (
	"fmt"

	"github.com/rpgo/lifepath/internal/domain"
)

// Logger is a minimal logging interface for the projection engine.
// *logrus.Logger satisfies it. The default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// recorder logs recoverable problems and keeps them as diagnostics for the result.
// Each run owns its recorder.
type recorder struct {
	log   Logger
	diags []domain.Diagnostic
}

func newRecorder(l Logger) *recorder {
	if l == nil {
		l = NopLogger{}
	}
	return &recorder{log: l}
}

func (r *recorder) warn(subject string, year *int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.log.Warnf("%s: %s", subject, msg)
	r.diags = append(r.diags, domain.Diagnostic{Severity: domain.SeverityWarning, Subject: subject, Message: msg, Year: year})
}

func (r *recorder) info(subject string, year *int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.log.Debugf("%s: %s", subject, msg)
	r.diags = append(r.diags, domain.Diagnostic{Severity: domain.SeverityInfo, Subject: subject, Message: msg, Year: year})
}

func (r *recorder) merge(diags []domain.Diagnostic) {
	r.diags = append(r.diags, diags...)
}

func yearPtr(y int) *int { return &y }
