package parser

import (
	"regexp"
	"strings"

	"github.com/wecisecode/datastructures/collection"
)

// KVmParse reads `k=v`, `-k=v`, `--k v` style items, as found in os.Args and os.Environ.
// A bare word is stored under itself. Repeated keys keep every value in order.
func KVmParse(kvs ...string) (sm *Section, err error) {
	sm = collection.New[any]()
	for _, kv := range ArgsParse(kvs) {
		k := kv.Key
		if k == "" {
			k = kv.Val
		}
		key := collection.KeyOf(k)
		values, _ := sm.GetValue(key).([]any)
		sm.Set(key, append(values, kv.Val))
	}
	return
}

var (
	regxLongKV  = regexp.MustCompile(`^\--[^=]+=.*$`)
	regxLongK   = regexp.MustCompile(`^\--[^=]+$`)
	regxShortKV = regexp.MustCompile(`^\-[^=]+=.*$`)
	regxShortK  = regexp.MustCompile(`^\-[^=]+$`)
)

type KV struct{ Key, Val string }

func ArgsParse(args []string) (kvs []*KV) {
	argk := ""
	argv := ""
	for _, arg := range args {
		if argk != "" {
			argv = arg
		} else if regxLongKV.MatchString(arg) {
			kv := strings.SplitN(arg[2:], "=", 2)
			argk = kv[0]
			argv = kv[1]
		} else if regxLongK.MatchString(arg) {
			argk = arg[2:]
			continue
		} else if regxShortKV.MatchString(arg) {
			kv := strings.SplitN(arg[1:], "=", 2)
			argk = kv[0]
			argv = kv[1]
		} else if regxShortK.MatchString(arg) {
			argk = arg[1:]
			continue
		} else {
			kv := strings.SplitN(arg, "=", 2)
			if len(kv) == 2 {
				argk = kv[0]
				argv = kv[1]
			} else {
				argk = ""
				argv = arg
			}
		}
		kvs = append(kvs, &KV{argk, argv})
		argk, argv = "", ""
	}
	if argk != "" {
		kvs = append(kvs, &KV{argk, argv})
	}
	return
}
