package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

type Level logrus.Level

const DebugLevel = Level(logrus.DebugLevel)

type Fields = logrus.Fields

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
}

func SetLevel(level Level) {
	Logger.SetLevel(logrus.Level(level))
}

// SetOutput redirects every log line, used by tests to keep output quiet.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func WithFields(fields Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

func Log(level Level, args ...any) {
	Logger.Logln(logrus.Level(level), args...)
}

func Infof(fmt string, args ...any) {
	Logger.Infof(fmt, args...)
}
func Info(args ...any) {
	Logger.Infoln(args...)
}

func Errorf(fmt string, args ...any) {
	Logger.Errorf(fmt, args...)
}
func Error(args ...any) {
	Logger.Errorln(args...)
}

func Fatal(args ...any) {
	Logger.Fatalln(args...)
}
