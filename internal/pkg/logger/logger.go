package logger

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Fieldsは構造化ログの付加情報
type Fields map[string]interface{}

// Loggerはusecase/handlerが依存するログの窓口
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
}

// gommonLoggerはechoと同じgommon/logでJSONを出す
type gommonLogger struct {
	l *log.Logger
}

// Newはレベル名（debug/info/warn/error）からLoggerを作る
func New(prefix string, level string) Logger {
	return NewWithWriter(prefix, level, os.Stdout)
}

func NewWithWriter(prefix string, level string, w io.Writer) Logger {
	l := log.New(prefix)
	l.SetOutput(w)
	l.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`)
	l.SetLevel(parseLevel(level))
	return &gommonLogger{l: l}
}

// Gommonはecho.Loggerに渡す用
func Gommon(lg Logger) *log.Logger {
	if g, ok := lg.(*gommonLogger); ok {
		return g.l
	}
	return log.New("echo")
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func entry(msg string, fields Fields) log.JSON {
	j := log.JSON{"message": msg}
	for k, v := range fields {
		j[k] = v
	}
	return j
}

func (g *gommonLogger) Debug(msg string, fields Fields) { g.l.Debugj(entry(msg, fields)) }
func (g *gommonLogger) Info(msg string, fields Fields)  { g.l.Infoj(entry(msg, fields)) }
func (g *gommonLogger) Warn(msg string, fields Fields)  { g.l.Warnj(entry(msg, fields)) }

func (g *gommonLogger) Error(msg string, err error, fields Fields) {
	j := entry(msg, fields)
	if err != nil {
		j["error"] = err.Error()
	}
	g.l.Errorj(j)
}

// Nopはテスト用
func Nop() Logger {
	return NewWithWriter("nop", "off", io.Discard)
}
