// Package cfg merges layered configuration sources into one flat, ordered view.
//
// Each CfgOption names a source: ini, yaml or json text or file, or a key/value list such
// as os.Args and os.Environ. Sources are merged in the order given, later ones win.
// Sections are flattened to dotted keys, so
//
//	[log]
//	level=debug
//
// is read back with GetString("log.level").
package cfg

import (
	"errors"
	"fmt"
	"os"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/wecisecode/datastructures/cfg/parser"
	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/merrs"
)

type CfgType int

const (
	UserDefined CfgType = iota // Parser must be given
	KVS_TEXT                   // mainly for environment variables and command line arguments
	INI_TEXT
	INI_FILE
	JSON_TEXT
	JSON_FILE
	YAML_TEXT
	YAML_FILE
)

type CfgParser func(values ...string) (sm *parser.Section, err error)

type CfgOption struct {
	Name   string
	Type   CfgType
	Values []string
	Parser CfgParser
}

func (co *CfgOption) String() string {
	if len(co.Values) == 1 && len(co.Values[0]) < 100 && !strings.ContainsAny(co.Values[0], " \t\r\n") {
		return co.Name + ":/" + co.Values[0]
	}
	return co.Name
}

func (co *CfgOption) isFile() bool {
	switch co.Type {
	case INI_FILE, JSON_FILE, YAML_FILE:
		return true
	}
	return false
}

func (co *CfgOption) parser() (CfgParser, error) {
	if co.Parser != nil {
		return co.Parser, nil
	}
	switch co.Type {
	case KVS_TEXT:
		return parser.KVmParse, nil
	case INI_TEXT, INI_FILE:
		return parser.IniParse, nil
	case JSON_TEXT, JSON_FILE:
		return parser.JsonParse, nil
	case YAML_TEXT, YAML_FILE:
		return parser.YamlParse, nil
	}
	return nil, merrs.ErrProgram.New("no parser for configuration type", merrs.SSMap{"option": co.String(), "type": cast.ToString(int(co.Type))})
}

func GetIniFileCfgOption(filename string) *CfgOption {
	return &CfgOption{Name: "m:file", Type: INI_FILE, Values: []string{filename}}
}

var CFGOPTION_ARGS = &CfgOption{Name: "m:args", Type: KVS_TEXT, Values: os.Args[1:]}
var CFGOPTION_ENVS = &CfgOption{Name: "m:envs", Type: KVS_TEXT, Values: os.Environ()}

type Configure interface {
	Name() string
	// time of the last change
	Stamp() time.Time
	// Set overrides key from code, it wins over every source
	Set(key string, value interface{})
	Get(key string, defaultvalue ...interface{}) interface{}
	GetStrings(key string, defaultvalue ...string) []string
	GetString(key string, defaultvalue ...string) string
	GetInt(key string, defaultvalue ...int) int
	GetBool(key string, defaultvalue ...bool) bool
	GetFloat(key string, defaultvalue ...float64) float64
	// units d h m s ms us ns, a bare number counts milliseconds
	GetDuration(key string, defaultvalue ...interface{}) time.Duration
	Keys() []string
	Map() map[string]interface{}
	Collection() *collection.Collection[any]
	Info() string
	// Reload reads every source again and notifies the change handlers
	Reload() error
	OnChange(func()) int64
	RemoveChangeHandler(int64)
	WithLogger(log ConfLog) Configure
}

type mChangeHandler struct {
	name string
	proc func()
}

type mConfig struct {
	mu             sync.RWMutex
	name           string
	stamp          time.Time
	options        []*CfgOption
	layers         []*parser.Section               // one per option, in order
	setcfg         *parser.Section                 // values set through Set
	allConfig      *collection.Collection[any]     // flattened merge of layers and setcfg
	changehandlers *collection.Collection[*mChangeHandler]
	log            *mConfLog
}

// MConfig loads the given sources. Sources that fail to load are logged and left empty.
func MConfig(option ...*CfgOption) Configure {
	mc := newConfig(option...)
	for _, err := range mc.load() {
		mc.log.Warn(err)
	}
	return mc
}

// NewConfig loads the given sources and returns the first failure.
func NewConfig(option ...*CfgOption) (Configure, error) {
	mc := newConfig(option...)
	if errs := mc.load(); len(errs) > 0 {
		return nil, errs[0]
	}
	return mc, nil
}

func newConfig(option ...*CfgOption) *mConfig {
	names := []string{}
	for _, o := range option {
		names = append(names, o.String())
	}
	return &mConfig{
		name:           strings.Join(names, ","),
		stamp:          time.Now(),
		options:        option,
		setcfg:         collection.New[any](),
		allConfig:      collection.New[any](),
		changehandlers: collection.New[*mChangeHandler](),
		log:            &mConfLog{},
	}
}

func (mc *mConfig) load() (errs []error) {
	layers := make([]*parser.Section, len(mc.options))
	for i, o := range mc.options {
		sm, err := loadOption(o)
		if err != nil {
			errs = append(errs, err)
			sm = collection.New[any]()
		}
		mc.log.Debug("load config from", o.String(), "keys:", sm.Len())
		layers[i] = sm
	}
	mc.mu.Lock()
	mc.layers = layers
	mc.merge()
	mc.mu.Unlock()
	return
}

func loadOption(o *CfgOption) (*parser.Section, error) {
	parserf, err := o.parser()
	if err != nil {
		return nil, err
	}
	values := o.Values
	if o.isFile() {
		values = nil
		for _, filename := range o.Values {
			bs, err := os.ReadFile(filename)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					// a missing file reads as empty
					continue
				}
				return nil, merrs.ErrProgram.New(err, merrs.SSMap{"file": filename})
			}
			values = append(values, string(bs))
		}
	}
	sm, err := parserf(values...)
	if err != nil {
		return nil, merrs.ErrParser.New(err, merrs.SSMap{"option": o.String()})
	}
	if sm == nil {
		sm = collection.New[any]()
	}
	return sm, nil
}

func (mc *mConfig) Reload() error {
	errs := mc.load()
	mc.onChanged()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (mc *mConfig) Name() string {
	return mc.name
}

func (mc *mConfig) Stamp() time.Time {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.stamp
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	s, e := cast.ToStringE(v)
	if e != nil {
		return fmt.Sprint(v)
	}
	return s
}

func toStrings(v interface{}) []string {
	var a []string
	switch v := v.(type) {
	case []interface{}:
		for _, u := range v {
			a = append(a, toString(u))
		}
		return a
	case []string:
		return v
	case string:
		return []string{v}
	default:
		return []string{toString(v)}
	}
}

// last picks the value that wins among the merged values of a key.
func last(v interface{}) interface{} {
	switch v := v.(type) {
	case []interface{}:
		if len(v) > 0 {
			return v[len(v)-1]
		}
		return nil
	case []string:
		if len(v) > 0 {
			return v[len(v)-1]
		}
		return nil
	}
	return v
}

func (mc *mConfig) Set(key string, value interface{}) {
	mc.mu.Lock()
	mc.setcfg.Set(collection.KeyOf(key), value)
	mc.mu.Unlock()
	mc.onChanged()
}

// get looks key up, trying each of the "|" separated alternatives in turn.
func (mc *mConfig) get(key string) (v interface{}, ok bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, k := range strings.Split(key, "|") {
		v, ok = mc.allConfig.Get(collection.KeyOf(strings.TrimSpace(k)))
		if ok {
			return
		}
	}
	return nil, false
}

func (mc *mConfig) Get(key string, defaultvalue ...interface{}) interface{} {
	v, ok := mc.get(key)
	if !ok {
		if len(defaultvalue) > 0 {
			return defaultvalue[len(defaultvalue)-1]
		}
		return nil
	}
	return last(v)
}

func (mc *mConfig) GetStrings(key string, defaultvalue ...string) []string {
	v, ok := mc.get(key)
	if !ok {
		return defaultvalue
	}
	return toStrings(v)
}

func (mc *mConfig) GetString(key string, defaultvalue ...string) string {
	v, ok := mc.get(key)
	if !ok {
		if len(defaultvalue) > 0 {
			return defaultvalue[len(defaultvalue)-1]
		}
		return ""
	}
	return toString(last(v))
}

func (mc *mConfig) GetInt(key string, defaultvalue ...int) int {
	v, ok := mc.get(key)
	if !ok {
		if len(defaultvalue) > 0 {
			return defaultvalue[len(defaultvalue)-1]
		}
		return 0
	}
	return cast.ToInt(last(v))
}

func (mc *mConfig) GetFloat(key string, defaultvalue ...float64) float64 {
	v, ok := mc.get(key)
	if !ok {
		if len(defaultvalue) > 0 {
			return defaultvalue[len(defaultvalue)-1]
		}
		return 0
	}
	return cast.ToFloat64(last(v))
}

func (mc *mConfig) GetBool(key string, defaultvalue ...bool) bool {
	v, ok := mc.get(key)
	if !ok {
		if len(defaultvalue) > 0 {
			return defaultvalue[len(defaultvalue)-1]
		}
		return false
	}
	return cast.ToBool(last(v))
}

func (mc *mConfig) GetDuration(key string, defaultvalue ...interface{}) (nv time.Duration) {
	nv = parseDuration(mc.GetString(key))
	if nv == 0 && len(defaultvalue) > 0 {
		switch dv := defaultvalue[len(defaultvalue)-1].(type) {
		case time.Duration:
			nv = dv
		default:
			nv = parseDuration(toString(dv))
		}
	}
	return
}

func parseDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := cast.ToInt64E(s); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	if strings.HasSuffix(s, "d") {
		if n, err := cast.ToFloat64E(strings.TrimSuffix(s, "d")); err == nil {
			return time.Duration(n * float64(24*time.Hour))
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func (mc *mConfig) Keys() []string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	keys := []string{}
	for _, k := range mc.allConfig.Keys() {
		keys = append(keys, k.String())
	}
	return keys
}

func (mc *mConfig) Map() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	m := map[string]interface{}{}
	for k, v := range mc.allConfig.All() {
		m[k.String()] = last(v)
	}
	return m
}

// Collection returns a copy of the flattened configuration. Every value is the list of
// merged values for that key.
func (mc *mConfig) Collection() *collection.Collection[any] {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.allConfig.Copy()
}

// Arrays are kept down to the last level, so these two are read the same way:
//
//	a:
//	  - b: 1
//	  - b: 2
//	a.b: [1, 2]
func mergeFlatting(retsm *collection.Collection[any], key string, value interface{}) {
	switch v := value.(type) {
	case nil:
		return
	case *parser.Section:
		keyprefix := key
		if keyprefix != "" && !strings.HasSuffix(keyprefix, ".") {
			keyprefix += "."
		}
		for k, sv := range v.All() {
			mergeFlatting(retsm, keyprefix+k.String(), sv)
		}
	case []string:
		for _, sv := range v {
			mergeFlatting(retsm, key, sv)
		}
	case []interface{}:
		for _, sv := range v {
			mergeFlatting(retsm, key, sv)
		}
	default:
		k := collection.KeyOf(key)
		ov, _ := retsm.GetValue(k).([]interface{})
		retsm.Set(k, append(ov, value))
	}
}

// merge rebuilds allConfig, mc.mu held.
func (mc *mConfig) merge() {
	mc.stamp = time.Now()
	sm := collection.New[any]()
	for _, layer := range mc.layers {
		mergeFlatting(sm, "", layer)
	}
	mergeFlatting(sm, "", mc.setcfg)
	mc.allConfig = sm
}

func (mc *mConfig) RemoveChangeHandler(key int64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.changehandlers.Remove(collection.IntKey(key - 1))
}

// OnChange registers och and runs it once right away. The returned id removes it again.
func (mc *mConfig) OnChange(och func()) int64 {
	if och == nil {
		return 0
	}
	_, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(reflect.ValueOf(och).Pointer()).Name()
	name := fmt.Sprint(fn, "[", path.Base(file), ":", line, "]")
	mc.mu.Lock()
	key := mc.changehandlers.Add(&mChangeHandler{name: name, proc: och})
	mc.mu.Unlock()
	och()
	// ids start at 1, 0 stands for no handler
	id, _ := key.Int()
	return id + 1
}

func (mc *mConfig) onChanged() {
	mc.mu.Lock()
	mc.merge()
	handlers := mc.changehandlers.Values()
	mc.mu.Unlock()
	for _, ch := range handlers {
		mc.log.Debug(mc.name, "notify on config changed to", ch.name)
		ch.proc()
	}
}

func (mc *mConfig) Info() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	out := collection.New[any]()
	out.Set(collection.StrKey("time"), mc.stamp.Format("2006-01-02 15:04:05.000000000"))
	out.Set(collection.KeyOf(mc.name), mc.allConfig)
	return out.String()
}

// WithLogger routes the configuration's own messages to log, including those buffered
// before a logger was attached.
func (mc *mConfig) WithLogger(log ConfLog) Configure {
	mc.log.AppLog(log)
	return mc
}
