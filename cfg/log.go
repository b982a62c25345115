package cfg

import (
	"fmt"
	"strings"
	"sync"
)

// ConfLog is what cfg needs from a logger, logger.Logger fits.
// Until one is attached with WithLogger messages are kept, the last 100 of them, and
// replayed to it.
type ConfLog interface {
	PrintOut(level interface{}, format string, v ...interface{}) bool
}

type mConfLog struct {
	bufmux sync.Mutex
	buffer [][2]string
	applog ConfLog
}

func (mc *mConfLog) AppLog(log ConfLog) {
	mc.bufmux.Lock()
	defer mc.bufmux.Unlock()
	mc.applog = log
	if log == nil {
		return
	}
	for _, info := range mc.buffer {
		log.PrintOut(info[0], "", info[1])
	}
	mc.buffer = nil
}

func (mc *mConfLog) PrintOut(level string, a ...interface{}) bool {
	mc.bufmux.Lock()
	defer mc.bufmux.Unlock()
	if mc.applog != nil {
		return mc.applog.PrintOut(level, "", a...)
	}
	s := strings.TrimRight(fmt.Sprintln(a...), "\r\n")
	mc.buffer = append(mc.buffer, [2]string{level, s})
	if len(mc.buffer) > 100 {
		mc.buffer = mc.buffer[len(mc.buffer)-100:]
	}
	return false
}

func (mc *mConfLog) Debug(a ...interface{}) {
	mc.PrintOut("D", a...)
}

func (mc *mConfLog) Warn(a ...interface{}) {
	mc.PrintOut("W", a...)
}

func (mc *mConfLog) Error(a ...interface{}) {
	mc.PrintOut("E", a...)
}
