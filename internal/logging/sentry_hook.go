package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type capturer interface {
	CaptureException(exception error) *sentry.EventID
	CaptureMessage(message string) *sentry.EventID
}

type hubCapturer struct{}

func (hubCapturer) CaptureException(exception error) *sentry.EventID {
	return sentry.CurrentHub().CaptureException(exception)
}

func (hubCapturer) CaptureMessage(message string) *sentry.EventID {
	return sentry.CurrentHub().CaptureMessage(message)
}

// SentryHook forwards log entries of the given levels to Sentry. An entry
// carrying an error field is captured as an exception.
type SentryHook struct {
	levels   []logrus.Level
	capturer capturer
}

func NewSentryHook(levels []logrus.Level) *SentryHook {
	return &SentryHook{
		levels:   levels,
		capturer: hubCapturer{},
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		h.capturer.CaptureException(errors.Join(errors.New(entry.Message), err))
		return nil
	}
	h.capturer.CaptureMessage(entry.Message)
	return nil
}
