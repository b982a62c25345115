package logger

import (
	"os"
)

const (
	UNKNOWN int32 = iota
	TRACE
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
	OFF
)

const (
	LevelTRACE     = "TRACE"
	LevelDEBUG     = "DEBUG"
	LevelINFO      = "INFO"
	LevelWARN      = "WARN"
	LevelERROR     = "ERROR"
	LevelFATAL     = "FATAL"
	LevelOFF       = "OFF"
	LevelFlagTRACE = "T"
	LevelFlagDEBUG = "D"
	LevelFlagINFO  = "I"
	LevelFlagWARN  = "W"
	LevelFlagERROR = "E"
	LevelFlagFATAL = "F"
)

var defaultLogger = New()

func DefaultLogger() *Logger {
	return defaultLogger
}

func SetConsole(isConsole bool) {
	if isConsole {
		defaultLogger.SetConsoleOut(os.Stdout)
	} else {
		defaultLogger.SetConsoleOut(nil)
	}
}

func SetColor(isColor bool) {
	defaultLogger.SetColor(isColor)
}

func SetLevel(level interface{}) {
	defaultLogger.SetLevel(level)
}

func SetConsoleLevel(level interface{}) {
	defaultLogger.SetConsoleLevel(level)
}

func Trace(a ...interface{}) {
	defaultLogger.PrintOut(TRACE, "", a...)
}

func Tracef(format string, a ...interface{}) {
	defaultLogger.PrintOut(TRACE, format, a...)
}

func Debug(a ...interface{}) {
	defaultLogger.PrintOut(DEBUG, "", a...)
}

func Debugf(format string, a ...interface{}) {
	defaultLogger.PrintOut(DEBUG, format, a...)
}

func Info(a ...interface{}) {
	defaultLogger.PrintOut(INFO, "", a...)
}

func Infof(format string, a ...interface{}) {
	defaultLogger.PrintOut(INFO, format, a...)
}

func Warn(a ...interface{}) {
	defaultLogger.PrintOut(WARN, "", a...)
}

func Warnf(format string, a ...interface{}) {
	defaultLogger.PrintOut(WARN, format, a...)
}

func Error(a ...interface{}) {
	defaultLogger.PrintOut(ERROR, "", a...)
}

func Errorf(format string, a ...interface{}) {
	defaultLogger.PrintOut(ERROR, format, a...)
}

func Fatal(a ...interface{}) {
	defaultLogger.PrintOut(FATAL, "", a...)
}

func Fatalf(format string, a ...interface{}) {
	defaultLogger.PrintOut(FATAL, format, a...)
}
