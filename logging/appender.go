package logging

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface, so zap
// cores such as the test observer can be used directly.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// ConsoleAppender will create human readable log lines and write them to an `io.Writer`.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates a new appender that writes to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates a new appender that writes to the input writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	buf, err := encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	_, err = appender.Writer.Write(buf.Bytes())
	return err
}

// Sync flushes the underlying writer when it supports syncing.
func (appender ConsoleAppender) Sync() error {
	if syncer, ok := appender.Writer.(zapcore.WriteSyncer); ok {
		if err := syncer.Sync(); err != nil && appender.Writer != os.Stdout {
			return err
		}
	}
	return nil
}

// appenderCore adapts an Appender to a `zapcore.Core` so zap loggers handed out by `AsZap` share
// the same outputs.
type appenderCore struct {
	appender Appender
	level    zapcore.LevelEnabler
	fields   []zapcore.Field
}

func (core *appenderCore) Enabled(level zapcore.Level) bool {
	return core.level.Enabled(level)
}

func (core *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(core.fields)+len(fields))
	combined = append(combined, core.fields...)
	combined = append(combined, fields...)
	return &appenderCore{core.appender, core.level, combined}
}

func (core *appenderCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if core.Enabled(entry.Level) {
		return checked.AddCore(entry, core)
	}
	return checked
}

func (core *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if len(core.fields) == 0 {
		return core.appender.Write(entry, fields)
	}
	return core.appender.Write(entry, append(append([]zapcore.Field{}, core.fields...), fields...))
}

func (core *appenderCore) Sync() error {
	return core.appender.Sync()
}
