// Package parser turns configuration text into ordered nested collections. Sections and
// objects become *collection.Collection[any], repeated or list values become []any.
package parser

import (
	"github.com/wecisecode/datastructures/collection"
)

type Section = collection.Collection[any]

// DeepMerge copies src into dst. Nested sections merge, anything else from src replaces
// the value in dst.
func DeepMerge(dst, src *Section) *Section {
	for k, v := range src.All() {
		if sv, ok := v.(*Section); ok {
			if dv, ok := dst.GetValue(k).(*Section); ok {
				DeepMerge(dv, sv)
				continue
			}
			v = DeepMerge(collection.New[any](), sv)
		}
		dst.Set(k, v)
	}
	return dst
}
