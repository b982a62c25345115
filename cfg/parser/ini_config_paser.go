package parser

import (
	"regexp"

	"github.com/wecisecode/datastructures/collection"
	"gopkg.in/ini.v1"
)

var regxvalueskey = regexp.MustCompile(`^var\s*\"([^\"]*)\"$`)

// IniParse reads ini text with shadow keys. Keys of the DEFAULT section stay at the top
// level. A section named `var "name"` with a single `value` key defines the top level key
// name.
func IniParse(ini_format_str ...string) (sm *Section, err error) {
	sm = collection.New[any]()
	for _, ini_str := range ini_format_str {
		fcfg, err := ini.ShadowLoad([]byte(ini_str))
		if err != nil {
			return nil, err
		}
		ism := collection.New[any]()
		for _, section_name := range fcfg.SectionStrings() {
			section, _ := fcfg.GetSection(section_name)
			sm_sect := collection.New[any]()
			for _, key := range section.KeyStrings() {
				values := []any{}
				for _, v := range section.Key(key).ValueWithShadows() {
					values = append(values, v)
				}
				sm_sect.Set(collection.KeyOf(key), values)
			}
			if section_name == ini.DefaultSection {
				DeepMerge(ism, sm_sect)
				continue
			}
			valueskey := regxvalueskey.FindStringSubmatch(section_name)
			if values := sm_sect.GetValue(collection.StrKey("value")); values != nil && len(valueskey) > 1 && valueskey[1] != "" {
				ism.Set(collection.KeyOf(valueskey[1]), values)
				if sm_sect.Len() > 1 {
					ism.Set(collection.KeyOf(section_name), sm_sect)
				}
			} else {
				ism.Set(collection.KeyOf(section_name), sm_sect)
			}
		}
		DeepMerge(sm, ism)
	}
	return sm, nil
}
