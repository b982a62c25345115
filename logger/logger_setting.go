package logger

// WithConfig keeps the logger in step with mcfg. Keys under keyprefix:
//
//	[log]
//	level=trace        ; trace, debug, info, warn, error, fatal, off
//	console=true
//	color=true
//	consolelevel=-1    ; -1 follows level
//
// Values set by code through SetLevel, SetConsole, SetConsoleLevel or SetColor win over
// configured ones.
func (log *Logger) WithConfig(mcfg Configure, keyprefix ...string) *Logger {
	mcfg.OnChange(func() {
		log.setConsole(mcfg.GetBool(cfgkey(keyprefix, "console"), true))
		log.setColor(mcfg.GetBool(cfgkey(keyprefix, "color"), true))
		log.setConsoleLevel(mcfg.GetString(cfgkey(keyprefix, "consolelevel"), "-1"))
		log.setLevel(mcfg.GetString(cfgkey(keyprefix, "level"), LevelTRACE))
	})
	return log
}

type Setting struct {
	level        any
	isConsole    *bool
	consolelevel any
	isColor      *bool
}

func (l *Logger) SetLevel(level interface{}) {
	l.setting.level = level
	l.setLevel(level)
}

func (l *Logger) SetConsole(isConsole bool) {
	l.setting.isConsole = &isConsole
	l.setConsole(isConsole)
}

func (l *Logger) SetConsoleLevel(level interface{}) {
	l.setting.consolelevel = level
	l.setConsoleLevel(level)
}

func (l *Logger) SetColor(isColor bool) {
	l.setting.isColor = &isColor
	l.setColor(isColor)
}
