package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on top of a zerolog.Logger
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog writes JSON log lines to writer at or above level
func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger writes human-readable lines to stderr
func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	return NewZerolog(consoleWriter, level)
}

// NewNop discards everything
func NewNop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	z.emit(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	z.emit(z.logger.Debug(), component, fields).Msg(message)
}

// Fatal logs the error and exits the process with status 1
func (z *ZerologAdapter) Fatal(component string, err error, fields map[string]interface{}) {
	z.emit(z.logger.Fatal(), component, fields).Err(err).Msg("fatal")
}

func (z *ZerologAdapter) emit(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	// zerolog returns a nil event for disabled levels; its methods are no-ops on nil
	event = event.Str("component", component)
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	return event
}
