package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Configure is the part of a configuration source the logger reads its settings from.
type Configure interface {
	GetString(key string, defaultvalue ...string) string
	GetBool(key string, defaultvalue ...bool) bool
	OnChange(func()) int64
}

type Logger struct {
	mu      sync.RWMutex
	option  *Option
	lc      sync.Mutex
	setting Setting // set by code, takes precedence over configuration
	depth   int
	out     io.Writer // last non-nil console writer
}

func New(opt ...*Option) *Logger {
	option := defaultOption.Merge(opt...)
	return &Logger{option: option, out: option.Console}
}

func cfgkey(keyprefixs []string, key string) (cfgkey string) {
	if len(keyprefixs) == 0 {
		return key
	}
	for _, keyprefix := range keyprefixs {
		keyprefix = strings.TrimSpace(keyprefix)
		if keyprefix != "" && keyprefix[len(keyprefix)-1] != '.' {
			keyprefix += "."
		}
		return keyprefix + key
	}
	return
}

// SetDepth changes how many frames above PrintOut the caller is looked up.
func (l *Logger) SetDepth(depth int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.depth = depth
}

func (l *Logger) Level() (int32, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lv := levelMaps[l.option.Level]
	if lv == nil {
		if l.option.Level >= OFF {
			return l.option.Level, LevelOFF
		}
		return l.option.Level, ""
	}
	return lv.id, lv.name
}

func (l *Logger) ConsoleLevel() int32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.option.ConsoleLevel
}

// IsEnabled reports whether a message of the given level would be written.
func (l *Logger) IsEnabled(level interface{}) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled(castToLevel(level))
}

func (l *Logger) enabled(level int32) bool {
	if l.option.Console == nil {
		return false
	}
	if l.option.ConsoleLevel >= 0 {
		return l.option.ConsoleLevel <= level
	}
	return l.option.Level <= level
}

func (l *Logger) setLevel(level interface{}) {
	if l.setting.level != nil && l.setting.level != level {
		return
	}
	if lv := castToLevel(level); lv != UNKNOWN {
		l.mu.Lock()
		l.option.Level = lv
		l.mu.Unlock()
	}
}

func (l *Logger) SetConsoleOut(consoleout io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.option.Console = consoleout
	if consoleout != nil {
		l.out = consoleout
	}
}

func (l *Logger) setConsole(isConsole bool) {
	if l.setting.isConsole != nil && *l.setting.isConsole != isConsole {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !isConsole {
		l.option.Console = nil
		return
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	l.option.Console = l.out
}

func (l *Logger) setConsoleLevel(level interface{}) {
	if l.setting.consolelevel != nil && l.setting.consolelevel != level {
		return
	}
	lv := castToLevel(level)
	if lv == UNKNOWN {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.option.ConsoleLevel = lv
}

func (l *Logger) setColor(isColor bool) {
	if l.setting.isColor != nil && *l.setting.isColor != isColor {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.option.ConsoleColor = isColor
}

func (l *Logger) Fatal(a ...interface{}) {
	l.PrintOut(FATAL, "", a...)
}

func (l *Logger) Fatalf(format string, a ...interface{}) {
	l.PrintOut(FATAL, format, a...)
}

func (l *Logger) Error(a ...interface{}) {
	l.PrintOut(ERROR, "", a...)
}

func (l *Logger) Errorf(format string, a ...interface{}) {
	l.PrintOut(ERROR, format, a...)
}

func (l *Logger) Warn(a ...interface{}) {
	l.PrintOut(WARN, "", a...)
}

func (l *Logger) Warnf(format string, a ...interface{}) {
	l.PrintOut(WARN, format, a...)
}

func (l *Logger) Info(a ...interface{}) {
	l.PrintOut(INFO, "", a...)
}

func (l *Logger) Infof(format string, a ...interface{}) {
	l.PrintOut(INFO, format, a...)
}

func (l *Logger) Debug(a ...interface{}) {
	l.PrintOut(DEBUG, "", a...)
}

func (l *Logger) Debugf(format string, a ...interface{}) {
	l.PrintOut(DEBUG, format, a...)
}

func (l *Logger) Trace(a ...interface{}) {
	l.PrintOut(TRACE, "", a...)
}

func (l *Logger) Tracef(format string, a ...interface{}) {
	l.PrintOut(TRACE, format, a...)
}

func (l *Logger) Print(a ...interface{}) {
	l.PrintOut(INFO, "", a...)
}

func (l *Logger) Printf(format string, a ...interface{}) {
	l.PrintOut(INFO, format, a...)
}

func (lg *Logger) PrintOut(level interface{}, format string, v ...interface{}) bool {
	lg.mu.RLock()
	calldepth := 2
	if lg.depth != 0 {
		calldepth = lg.depth
	}
	lg.mu.RUnlock()
	return lg.Output(calldepth+1, castToLevel(level), false, format, v...)
}

// Output writes one record for the caller calldepth frames up. force ignores the level.
func (l *Logger) Output(calldepth int, level int32, force bool, format string, v ...interface{}) bool {
	_, file, line, _ := runtime.Caller(calldepth)
	lv := levelMaps[level]
	if lv == nil {
		lv = levelMaps[INFO]
	}
	return l.writeLog(force, level, lv, file, line, format, v...)
}

var pid = os.Getpid()

func (lg *Logger) Format(t time.Time, lv string, module string, file string, line int, format string, args ...interface{}) string {
	var msg string
	if format == "" {
		strs := make([]string, len(args))
		for i, arg := range args {
			strs[i] = fmt.Sprint(arg)
		}
		msg = strings.Join(strs, " ")
	} else if len(args) == 0 {
		msg = format
	} else {
		msg = fmt.Sprintf(format, args...)
	}
	if module != "" {
		file = module + "/" + file
	}
	return fmt.Sprintf("%s [%d] [%s] %s:%d %s\n", t.Format("2006-01-02 15:04:05.000000"), pid, lv, file, line, msg)
}

func (lg *Logger) writeLog(force bool, level int32, lv *level, filepath string, line int, format string, args ...interface{}) (output bool) {
	defer func() {
		if x := recover(); x != nil {
			fmt.Println("log output error:", x)
		}
	}()
	lg.mu.RLock()
	console := lg.option.Console
	colored := lg.option.ConsoleColor && lv.color != nil
	enabled := force || lg.enabled(level)
	lg.mu.RUnlock()
	if console == nil || !enabled {
		return false
	}

	_, module, shortfile := splitFile(filepath)
	s := lg.Format(time.Now(), lv.flag, module, shortfile, line, format, args...)
	lg.lc.Lock()
	defer lg.lc.Unlock()
	if colored {
		color.New(lv.color...).Fprint(console, s)
	} else {
		io.WriteString(console, s)
	}
	return true
}
