package diagnostic

import (
	"context"
	"log/slog"
)

// Reporter receives diagnostics as they are produced.
// *Diagnostics, LogReporter and Discard implement it.
type Reporter interface {
	Report(d Diagnostic)
}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

// Fixed reports a value replaced by a documented default.
func Fixed(r Reporter, equipment, attribute, message string) {
	r.Report(Diagnostic{
		Severity:  SeverityInfo,
		Code:      CodeFixed,
		Message:   message,
		Equipment: equipment,
		Attribute: attribute,
	})
}

// Invalid reports a record that could not be interpreted.
func Invalid(r Reporter, equipment, attribute, message string, suggestions ...string) {
	r.Report(Diagnostic{
		Severity:    SeverityWarning,
		Code:        CodeInvalid,
		Message:     message,
		Equipment:   equipment,
		Attribute:   attribute,
		Suggestions: suggestions,
	})
}

// Missing reports absent data that forced a fallback.
func Missing(r Reporter, equipment, attribute, message string) {
	r.Report(Diagnostic{
		Severity:  SeverityWarning,
		Code:      CodeMissing,
		Message:   message,
		Equipment: equipment,
		Attribute: attribute,
	})
}

// Ignored reports data that was present but not used.
func Ignored(r Reporter, equipment, attribute, message string) {
	r.Report(Diagnostic{
		Severity:  SeverityInfo,
		Code:      CodeIgnored,
		Message:   message,
		Equipment: equipment,
		Attribute: attribute,
	})
}

// LogReporter writes every diagnostic to a slog.Logger and forwards it to Next.
type LogReporter struct {
	logger *slog.Logger
	next   Reporter
}

// NewLogReporter returns a LogReporter. A nil logger means slog.Default(),
// a nil next means Discard.
func NewLogReporter(logger *slog.Logger, next Reporter) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}

	if next == nil {
		next = Discard
	}

	return &LogReporter{logger: logger, next: next}
}

// Report implements Reporter.
func (l *LogReporter) Report(d Diagnostic) {
	attrs := []slog.Attr{slog.String("code", d.Code)}
	if d.Equipment != "" {
		attrs = append(attrs, slog.String("equipment", d.Equipment))
	}

	if d.Attribute != "" {
		attrs = append(attrs, slog.String("attribute", d.Attribute))
	}

	if len(d.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", d.Suggestions))
	}

	l.logger.LogAttrs(context.Background(), level(d.Severity), d.Message, attrs...)
	l.next.Report(d)
}

func level(s Severity) slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
