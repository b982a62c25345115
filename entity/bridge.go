package entity

import (
	"reflect"

	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/logger"
	"github.com/wecisecode/datastructures/merrs"
)

// Bridge carries what the checks below report about the entity they guard: its class
// name and identifying field. Errors name Class and Field, reconcile steps are logged to
// Log at debug level.
type Bridge struct {
	Class string
	Field string
	Log   *logger.Logger
}

func NewBridge(class string, field ...string) *Bridge {
	b := &Bridge{Class: class, Field: merrs.DefaultField}
	if len(field) > 0 && field[0] != "" {
		b.Field = field[0]
	}
	return b
}

func (b *Bridge) logger() *logger.Logger {
	if b.Log == nil {
		return logger.DefaultLogger()
	}
	return b.Log
}

func isZero(id any) bool {
	if id == nil {
		return true
	}
	return reflect.ValueOf(id).IsZero()
}

// MatchIDs fails with IdentifiersNotMatchError when both identifiers are set and differ.
// Identifiers of different types differ, 5 and "5" do not match.
func (b *Bridge) MatchIDs(entityID, datasetID any) error {
	if isZero(entityID) || isZero(datasetID) {
		return nil
	}
	if collection.StrictEqual(entityID, datasetID) {
		return nil
	}
	return merrs.NewIdentifiersNotMatch(b.Class, entityID, datasetID, b.Field)
}

// ValidateDataset fails with IncompleteDatasetError unless ds is complete. A nil ds is
// not complete.
func (b *Bridge) ValidateDataset(entityID any, ds Completer) error {
	if ds == nil || (reflect.ValueOf(ds).Kind() == reflect.Pointer && reflect.ValueOf(ds).IsNil()) || !ds.IsComplete() {
		return merrs.NewIncompleteDataset(b.Class, entityID, b.Field)
	}
	return nil
}

// Lookup returns the record stored under id, or EntityNotFoundError naming the bridge's
// class and field.
func Lookup[V any](b *Bridge, records *collection.Collection[V], id any) (V, error) {
	v, ok := records.Get(collection.KeyOf(id))
	if !ok {
		return v, merrs.NewEntityNotFound(b.Class, id, b.Field)
	}
	return v, nil
}
