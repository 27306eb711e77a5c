package logger

import (
	"github.com/sirupsen/logrus"
)

// Logrus adapts a logrus logger to the Logger contract.
type Logrus struct {
	entry *logrus.Entry
}

var _ Logger = (*Logrus)(nil)

// NewLogrus wraps l; a fresh JSON logrus logger is used when l is nil.
func NewLogrus(l *logrus.Logger) *Logrus {
	if l == nil {
		l = logrus.New()
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Logrus{entry: logrus.NewEntry(l)}
}

func (l *Logrus) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &Logrus{entry: l.entry.WithFields(toLogrusFields(fields))}
}

func (l *Logrus) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Debug(msg)
}

func (l *Logrus) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Info(msg)
}

func (l *Logrus) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Warn(msg)
}

func (l *Logrus) Error(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Error(msg)
}

func toLogrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			out[f.Key] = err.Error()
			continue
		}
		out[f.Key] = f.Value
	}
	return out
}
