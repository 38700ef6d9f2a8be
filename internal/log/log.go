// Package log is the leveled logger shared by the visualizer packages.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name. Unknown names map to LevelInfo.
func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelInfo
	}
}

var tagColors = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

type Logger struct {
	l     *stdlog.Logger
	level Level
	name  string
	now   func() time.Time
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		l:     stdlog.New(out, "", 0),
		level: level,
		now:   time.Now,
	}
}

// Stderr returns a logger on os.Stderr at the given level.
func Stderr(level Level) *Logger { return New(os.Stderr, level) }

// Discard returns a logger that drops everything.
func Discard() *Logger { return New(io.Discard, LevelNone) }

// Named returns a copy of l whose lines carry a component name.
func (lg *Logger) Named(name string) *Logger {
	c := *lg
	if c.name != "" {
		name = c.name + "." + name
	}
	c.name = name
	return &c
}

func (lg *Logger) log(level Level, msg string, args ...any) {
	if lg == nil || level < lg.level {
		return
	}
	tag := "[" + level.String() + "]"
	if c, ok := tagColors[level]; ok {
		tag = c.Sprint(tag)
	}
	ts := lg.now().Format("15:04:05")
	text := fmt.Sprintf(msg, args...)
	if lg.name != "" {
		lg.l.Printf("%s %s %s: %s", ts, tag, lg.name, text)
		return
	}
	lg.l.Printf("%s %s %s", ts, tag, text)
}

func (lg *Logger) Debugf(m string, a ...any) { lg.log(LevelDebug, m, a...) }
func (lg *Logger) Infof(m string, a ...any)  { lg.log(LevelInfo, m, a...) }
func (lg *Logger) Warnf(m string, a ...any)  { lg.log(LevelWarn, m, a...) }
func (lg *Logger) Errorf(m string, a ...any) { lg.log(LevelError, m, a...) }

func (lg *Logger) SetLevel(level Level) { lg.level = level }

func (lg *Logger) Level() Level { return lg.level }
