package logger

import (
	"io"
	"os"
)

type Option struct {
	Level        int32
	Console      io.Writer
	ConsoleLevel int32 // -1 follow with Level
	ConsoleColor bool
}

var defaultOption = &Option{
	Level:        TRACE,
	Console:      os.Stdout,
	ConsoleLevel: -1,
	ConsoleColor: true,
}

// Merge returns a copy of opt overridden by aos in order. A nil Console keeps the previous
// writer.
func (opt *Option) Merge(aos ...*Option) *Option {
	oo := &Option{
		Level:        opt.Level,
		Console:      opt.Console,
		ConsoleLevel: opt.ConsoleLevel,
		ConsoleColor: opt.ConsoleColor,
	}
	for _, a := range aos {
		if a == nil {
			continue
		}
		if a.Level != UNKNOWN {
			oo.Level = a.Level
		}
		if a.Console != nil {
			oo.Console = a.Console
		}
		oo.ConsoleLevel = a.ConsoleLevel
		oo.ConsoleColor = a.ConsoleColor
	}
	return oo
}
