//go:build !tinygo

package hub

import "github.com/sirupsen/logrus"

func init() {
	globalLogger = &logrusLogger{entry: logrus.StandardLogger().WithField("component", "dongle-hub")}
}

// logrusLogger adapts the module's allocation-conscious Logger interface
// to logrus. Only used on the host build; the tinygo build keeps a direct
// serial writer, since logrus pulls in reflection-heavy formatting
// unsuitable for a microcontroller image.
type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(msg string) { l.entry.Debug(msg) }
func (l *logrusLogger) Info(msg string)  { l.entry.Info(msg) }
func (l *logrusLogger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *logrusLogger) Error(msg string) { l.entry.Error(msg) }
