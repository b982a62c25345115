// Package entity holds the glue between stored entities and the datasets they are
// imported from and exported to: completeness of a dataset, identifier checks and
// reconciling per-language translation records.
package entity

import (
	"crypto/sha1"
	"encoding/hex"
	"reflect"
)

// Completer is implemented by datasets that know whether they carry every field of a
// record or only a partial projection.
type Completer interface {
	IsComplete() bool
}

// Dataset is embedded in transfer objects. A new Dataset is partial.
type Dataset struct {
	complete bool
}

func (d *Dataset) IsComplete() bool {
	return d != nil && d.complete
}

// SetCompletion marks the dataset complete or partial and returns it for chaining.
func (d *Dataset) SetCompletion(state bool) *Dataset {
	d.complete = state
	return d
}

// DatasetIdent is a short stable identifier of the dataset type of v: the first 8 hex
// digits of the sha1 of its package qualified type name. Pointers are followed.
func DatasetIdent(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := "<nil>"
	if t != nil {
		name = t.String()
		if t.Name() != "" && t.PkgPath() != "" {
			name = t.PkgPath() + "." + t.Name()
		}
	}
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])[:8]
}
