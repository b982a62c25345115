package parser

import (
	"strings"

	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/merrs"
)

func JsonParse(json_format_str ...string) (sm *Section, err error) {
	sm = collection.New[any]()
	for _, json_str := range json_format_str {
		if strings.TrimSpace(json_str) == "" {
			continue
		}
		v, err := collection.DecodeJSON([]byte(json_str))
		if err != nil {
			return nil, err
		}
		jsm, ok := v.(*Section)
		if !ok {
			return nil, merrs.ErrParser.New("json configuration should be an object")
		}
		DeepMerge(sm, jsm)
	}
	return sm, nil
}
