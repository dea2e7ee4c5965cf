//go:build tinygo

package hub

import (
	"machine"
)

func init() {
	globalLogger = &serialLogger{}
}

// serialLogger writes straight to the UART on TinyGo builds, avoiding the
// fmt/reflect overhead a structured logger would pull onto the firmware
// image.
type serialLogger struct{}

func (l *serialLogger) write(level, msg string) {
	machine.Serial.Write([]byte(level))
	machine.Serial.Write([]byte(msg))
	machine.Serial.Write([]byte("\r\n"))
}

func (l *serialLogger) Debug(msg string) { l.write("D ", msg) }
func (l *serialLogger) Info(msg string)  { l.write("I ", msg) }
func (l *serialLogger) Warn(msg string)  { l.write("W ", msg) }
func (l *serialLogger) Error(msg string) { l.write("E ", msg) }
