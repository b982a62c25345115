package entity

import (
	"github.com/wecisecode/datastructures/collection"
)

type Importer[D any] interface {
	Import(data D) error
}

type Exporter[D any] interface {
	Export() D
}

// Translations is the bridge side keyed store of translation records, one per language.
// *collection.Collection[N] satisfies it.
type Translations[N any] interface {
	Keys() []collection.Key
	Has(key collection.Key) bool
	GetValue(key collection.Key, defaultValue ...N) N
	Set(key collection.Key, value N)
	Remove(key collection.Key) (N, bool)
}

// ImportTranslations brings the bridge records in line with data. Languages are visited
// in the order of the bridge keys followed by the data keys not seen yet:
//
//   - only in data: create makes a record, it imports the data and is stored on the bridge
//   - only on the bridge: the record is removed
//   - on both sides: the existing record imports the data
//
// The first error from create or Import stops the reconcile and is returned. Records
// handled before it keep their changes.
func ImportTranslations[N Importer[D], D any](b *Bridge, bridge Translations[N], data *collection.Collection[D], create func(lang collection.Key) (N, error)) error {
	langs := collection.New[struct{}]()
	for _, lang := range bridge.Keys() {
		langs.Set(lang, struct{}{})
	}
	for _, lang := range data.Keys() {
		langs.Set(lang, struct{}{})
	}
	log := b.logger()
	for _, lang := range langs.Keys() {
		switch {
		case !bridge.Has(lang):
			node, err := create(lang)
			if err != nil {
				return err
			}
			if err := node.Import(data.GetValue(lang)); err != nil {
				return err
			}
			bridge.Set(lang, node)
			log.Debug(b.Class, "translation", lang, "created")
		case !data.Has(lang):
			bridge.Remove(lang)
			log.Debug(b.Class, "translation", lang, "removed")
		default:
			if err := bridge.GetValue(lang).Import(data.GetValue(lang)); err != nil {
				return err
			}
			log.Debug(b.Class, "translation", lang, "imported")
		}
	}
	return nil
}

// ExportTranslations exports every bridge record, keeping the bridge keys and order.
func ExportTranslations[N Exporter[D], D any](bridge Translations[N]) *collection.Collection[D] {
	out := collection.New[D]()
	for _, lang := range bridge.Keys() {
		out.Set(lang, bridge.GetValue(lang).Export())
	}
	return out
}
