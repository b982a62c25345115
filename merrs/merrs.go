// Package merrs provides classified errors built on github.com/spacemonkeygo/errors.
//
// Every error belongs to an ErrorClass. Classes form a hierarchy, so a caller can test
// for a whole family (NotExistError) or one member (EntityNotFoundError):
//
//	if merrs.EntityNotFoundError.Contains(err) { ... }
//	if errors.Is(err, merrs.NotExistError) { ... }
//
// Errors are returned as *Error, a plain struct that can be serialized and still be
// classified after a round trip.
package merrs

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/spacemonkeygo/errors"
	"github.com/spf13/cast"
)

type ErrDataKey errors.DataKey

var ErrorDataKeyModule = ErrDataKey(errors.GenSym())
var ErrorDataKeyInform = ErrDataKey(errors.GenSym())
var ErrorDataKeyStacks = ErrDataKey(errors.GenSym())
var ErrorDataKeyCause = ErrDataKey(errors.GenSym())

type SSMap map[string]string
type SSMaps []map[string]string
type Module string

type ErrorClass struct {
	gec *errors.ErrorClass
}

// New accepts, in any order: a message (a leading format string consumes the following
// arguments), Module, error causes, SSMap / SSMaps / map[string]any details,
// and an int adding stack depth.
func (e *ErrorClass) New(infos ...any) error {
	if len(infos) > 0 {
		if format, ok := infos[0].(string); ok {
			fcount := strings.Count(strings.ReplaceAll(format, "%%", ""), "%")
			if fcount > 0 && len(infos) > fcount {
				msg := fmt.Sprintf(format, infos[1:fcount+1]...)
				infos = append([]any{msg}, infos[fcount+1:]...)
			}
		}
	}
	module := ""
	depth := 1
	cause := []error{}
	inform := SSMaps{}
	for i, info := range infos {
		switch info := info.(type) {
		case nil:
		case Module:
			module = string(info)
		case int:
			depth += info
		case string:
			if info != "" {
				cause = append(cause, fmt.Errorf("%s", info))
			}
		case error:
			cause = append(cause, info)
		case []error:
			for _, c := range info {
				if c != nil {
					cause = append(cause, c)
				}
			}
		case SSMap:
			if len(info) > 0 {
				inform = append(inform, info)
			}
		case map[string]string:
			if len(info) > 0 {
				inform = append(inform, info)
			}
		case SSMaps:
			inform = append(inform, info...)
		case map[string]any:
			ssm := SSMap{}
			for k, v := range info {
				ssm[k] = cast.ToString(v)
			}
			if len(ssm) > 0 {
				inform = append(inform, ssm)
			}
		default:
			inform = append(inform, SSMap{fmt.Sprint("info", i): cast.ToString(info)})
		}
	}
	return e.NewWith(module, cause, inform, depth)
}

func (e *ErrorClass) NewCause(cause ...error) error {
	return e.NewWith("", cause, nil, 1)
}

// NewWith builds an error of class e. inform keeps key/value details in order.
// stacksDepth >= 0 records the call stack, skipping stacksDepth frames; a negative value
// records none.
func (e *ErrorClass) NewWith(module string, causes []error, inform SSMaps, stacksDepth int) error {
	sstacks := ""
	if stacksDepth >= 0 {
		stacks := getStack(2 + stacksDepth)
		if len(stacks) > 0 && module == "" {
			module = stacks[0].FuncName()
		}
		sstacks = stacks.String()
	}
	emsg := ""
	mcauses := []*Error{}
	for _, cause := range causes {
		mcause, isMError := mError(cause)
		if mcause == nil {
			continue
		}
		if isMError {
			mcauses = append(mcauses, mcause)
		}
		if emsg == "" {
			emsg = mcause.ErrorMsg
		} else if !isMError {
			inform = append(inform, SSMap{"related error": mcause.Error()})
		}
	}
	return MError(e.gec.NewWith(emsg,
		errors.SetData(errors.DataKey(ErrorDataKeyModule), module),
		errors.SetData(errors.DataKey(ErrorDataKeyInform), inform),
		errors.SetData(errors.DataKey(ErrorDataKeyStacks), sstacks),
		errors.SetData(errors.DataKey(ErrorDataKeyCause), mcauses),
	))
}

func (e *ErrorClass) Parent() *ErrorClass {
	pec := e.gec.Parent()
	if pec == nil {
		return nil
	}
	return getErrorClass(pec.String())
}

func (e *ErrorClass) String() string {
	return e.gec.String()
}

// Error lets a class be the target of errors.Is.
func (e *ErrorClass) Error() string {
	return e.gec.String()
}

// Is reports whether e is ec or one of its descendants.
func (e *ErrorClass) Is(ec *ErrorClass) bool {
	return e.gec.Is(ec.gec)
}

// Contains reports whether err, or one of its classified causes, belongs to e or to a
// descendant of e.
func (e *ErrorClass) Contains(err error) bool {
	gerr := gerror(err)
	if gerr == nil {
		return false
	}
	if e.gec.Contains(gerr) {
		return true
	}
	if mcauses, ok := gerr.GetData(errors.DataKey(ErrorDataKeyCause)).([]*Error); ok {
		for _, cause := range mcauses {
			if e.Contains(cause) {
				return true
			}
		}
	}
	return false
}

// Error is the serializable form of a classified error.
type Error struct {
	ErrorType   string
	ErrorMsg    string
	ErrorModule string
	ErrorInform SSMaps
	ErrorStacks string
	ErrorCause  []*Error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	etype := e.ErrorType
	message := strings.TrimRight(e.ErrorMsg, "\t\r\n ")
	if message != "" {
		if strings.Contains(message, "\n") {
			message = fmt.Sprintf("%s:\n  %s", etype, strings.ReplaceAll(message, "\n", "\n  "))
		} else {
			message = fmt.Sprintf("%s: %s", etype, message)
		}
	}
	addline := func(s string) {
		if message != "" {
			message += "\n"
		}
		message += s
	}
	if e.ErrorModule != "" {
		addline(fmt.Sprintf("%s %-10s %s", etype, "module:", e.ErrorModule))
	}
	for _, kv := range e.ErrorInform {
		for k, v := range kv {
			v = strings.TrimRight(v, "\t\r\n ")
			if strings.Contains(v, "\n") {
				addline(fmt.Sprintf("%s %s:\n  %s", etype, k, strings.ReplaceAll(v, "\n", "\n  ")))
			} else {
				addline(fmt.Sprintf("%s %-10s %s", etype, k+":", v))
			}
		}
	}
	if e.ErrorStacks != "" {
		addline(fmt.Sprintf("%s backtrace:\n  %s", etype, strings.ReplaceAll(e.ErrorStacks, "\n", "\n  ")))
	}
	for i, cause := range e.ErrorCause {
		causeKey := "cause"
		if len(e.ErrorCause) > 1 {
			causeKey += " " + strconv.Itoa(i)
		}
		addline(fmt.Sprintf("%s %s:\n  %s", etype, causeKey, strings.ReplaceAll(cause.Error(), "\n", "\n  ")))
	}
	return message
}

// Is makes errors.Is(err, class) work for classes and their descendants.
func (e *Error) Is(target error) bool {
	if ec, ok := target.(*ErrorClass); ok {
		return ec.Contains(e)
	}
	return false
}

// Message returns the message without class, details or stack.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.ErrorMsg
}

var errorclassesmutex sync.RWMutex
var errorclasses = map[string]*ErrorClass{}

func NewErrorClass(name string, parent *ErrorClass, options ...errors.ErrorOption) (ec *ErrorClass) {
	options = append([]errors.ErrorOption{errors.NoCaptureStack()}, options...)
	if parent == nil {
		return pushErrorClass(errors.NewClass(name, options...))
	}
	return pushErrorClass(parent.gec.NewClass(name, options...))
}

func pushErrorClass(sec *errors.ErrorClass) (ec *ErrorClass) {
	errorclassesmutex.Lock()
	defer errorclassesmutex.Unlock()
	ec = &ErrorClass{gec: sec}
	errorclasses[ec.String()] = ec
	return
}

func getErrorClass(name string) (ec *ErrorClass) {
	errorclassesmutex.RLock()
	defer errorclassesmutex.RUnlock()
	return errorclasses[name]
}

// gerror restores the spacemonkeygo form of err for class checks.
func gerror(err error) *errors.Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*errors.Error); ok {
		return se
	}
	if me, ok := err.(*Error); ok {
		if me == nil {
			return nil
		}
		ec := getErrorClass(me.ErrorType)
		if ec == nil {
			ec = ErrProgram
		}
		return ec.gec.NewWith(
			me.ErrorMsg,
			errors.SetData(errors.DataKey(ErrorDataKeyModule), me.ErrorModule),
			errors.SetData(errors.DataKey(ErrorDataKeyInform), me.ErrorInform),
			errors.SetData(errors.DataKey(ErrorDataKeyStacks), me.ErrorStacks),
			errors.SetData(errors.DataKey(ErrorDataKeyCause), me.ErrorCause),
		).(*errors.Error)
	}
	return errors.GetClass(err).New(err.Error()).(*errors.Error)
}

// MError converts err into its serializable form.
func MError(err error) *Error {
	e, _ := mError(err)
	return e
}

func mError(err error) (e *Error, isMError bool) {
	if err == nil {
		return nil, false
	}
	if me, ok := err.(*Error); ok {
		return me, true
	}
	if se, ok := err.(*errors.Error); ok {
		me := &Error{
			ErrorType:   se.Class().String(),
			ErrorMsg:    se.WrappedErr().Error(),
			ErrorModule: cast.ToString(se.GetData(errors.DataKey(ErrorDataKeyModule))),
		}
		if inform, ok := se.GetData(errors.DataKey(ErrorDataKeyInform)).(SSMaps); ok {
			me.ErrorInform = inform
		}
		if stks, ok := se.GetData(errors.DataKey(ErrorDataKeyStacks)).(string); ok {
			me.ErrorStacks = stks
		}
		if causes, ok := se.GetData(errors.DataKey(ErrorDataKeyCause)).([]*Error); ok && len(causes) > 0 {
			me.ErrorCause = causes
		}
		return me, true
	}
	return &Error{ErrorMsg: err.Error()}, false
}

func ErrorType(err error) string {
	switch e := err.(type) {
	case *Error:
		return e.ErrorType
	case *errors.Error:
		return e.Class().String()
	}
	return ErrProgram.String()
}

// InformValue returns the detail recorded under key, searching causes too.
func InformValue(err error, key string) (string, bool) {
	me, ok := mError(err)
	if !ok || me == nil {
		return "", false
	}
	for _, kv := range me.ErrorInform {
		if v, ok := kv[key]; ok {
			return v, true
		}
	}
	for _, cause := range me.ErrorCause {
		if v, ok := InformValue(cause, key); ok {
			return v, true
		}
	}
	return "", false
}

type stack []frame

func (me stack) String() string {
	var frames []string
	for _, stk := range me {
		frames = append(frames, stk.String())
	}
	return strings.Join(frames, "\n")
}

func getStack(depth int) stack {
	var pcs [256]uintptr
	amount := runtime.Callers(depth+1, pcs[:])
	stack := make([]frame, amount)
	for i := 0; i < amount; i++ {
		stack[i] = frame{pcs[i]}
	}
	return stack
}

// frame logs the pc at some point during execution.
type frame struct {
	pc uintptr
}

func (e frame) FuncName() string {
	if e.pc == 0 {
		return ""
	}
	f := runtime.FuncForPC(e.pc)
	if f == nil {
		return ""
	}
	fns := strings.Split(f.Name(), ".")
	return fns[len(fns)-1]
}

func (e frame) String() string {
	if e.pc == 0 {
		return "unknown.unknown:0"
	}
	f := runtime.FuncForPC(e.pc)
	if f == nil {
		return "unknown.unknown:0"
	}
	file, line := f.FileLine(e.pc)
	return fmt.Sprintf("%s:%s:%d", f.Name(), filepath.Base(file), line)
}
