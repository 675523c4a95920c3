// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"strings"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/rs/zerolog"
)

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	formatTags(ctx, true /* brackets */, &buf)
	buf.WriteString(renderArgs(false /* redactable */, format, args...))
	return buf.String()
}

// formatTags writes the tags of the context to buf, separated by commas. It
// returns false if the context has no tags.
func formatTags(ctx context.Context, brackets bool, buf *strings.Builder) bool {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return false
	}
	if brackets {
		buf.WriteByte('[')
	}
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.ValueStr(); v != "" {
			if len(t.Key()) > 1 {
				buf.WriteByte('=')
			}
			buf.WriteString(v)
		}
	}
	if brackets {
		buf.WriteString("] ")
	}
	return true
}

// renderArgs formats the message. Arguments that do not implement
// redact.SafeValue or redact.SafeFormatter are considered unsafe; when
// redactable is false the markers around them are stripped.
func renderArgs(redactable bool, format string, args ...interface{}) string {
	msg := redact.Sprintf(format, args...)
	if redactable {
		return string(msg)
	}
	return msg.StripMarkers()
}

// addStructured writes a log entry with the given severity to the configured
// sink. Context tags become fields of the entry.
func addStructured(ctx context.Context, sev Severity, format string, args []interface{}) {
	l := getLogger()
	var ev *zerolog.Event
	switch sev {
	case SeverityWarning:
		ev = l.Warn()
	case SeverityError:
		ev = l.Error()
	default:
		ev = l.Info()
	}
	if tags := logtags.FromContext(ctx); tags != nil {
		for _, t := range tags.Get() {
			ev = ev.Str(t.Key(), t.ValueStr())
		}
	}
	ev.Msg(renderArgs(logging.redactable.Load(), format, args...))
}
