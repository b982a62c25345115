package merrs

import (
	"fmt"

	"github.com/spacemonkeygo/errors"
	"github.com/spf13/cast"
)

var ProgrammerError = pushErrorClass(errors.ProgrammerError)

var (
	ErrProgram = NewErrorClass("Program", nil)

	ExistError    = NewErrorClass("ExistError", nil)
	NotExistError = NewErrorClass("NotExistError", nil)

	ErrFormat = NewErrorClass("[Format]", nil)
	ErrParser = NewErrorClass("[Parser]", ErrFormat)
	ErrJson   = NewErrorClass("[Json]", ErrFormat)
	ErrValid  = NewErrorClass("[Valid]", nil)
)

// Entity errors. They end the operation that raised them, nothing is retried or
// partially applied.
var (
	// a lookup by identifier found no record
	EntityNotFoundError = NewErrorClass("EntityNotFound", NotExistError)
	// an import was given an entity id and a dataset id that disagree
	IdentifiersNotMatchError = NewErrorClass("IdentifiersNotMatch", ErrValid)
	// a complete dataset was required, a partial or empty one was given
	IncompleteDatasetError = NewErrorClass("IncompleteDataset", ErrValid)
)

const DefaultField = "id"

func fieldName(field []string) string {
	if len(field) > 0 && field[0] != "" {
		return field[0]
	}
	return DefaultField
}

func NewEntityNotFound(class string, entityID any, field ...string) error {
	f := fieldName(field)
	id := cast.ToString(entityID)
	return EntityNotFoundError.NewWith("", []error{
		fmt.Errorf(`Entity "%s" with %s (%s) not found.`, class, f, id),
	}, SSMaps{{"class": class}, {"field": f}, {"id": id}}, 1)
}

func NewIdentifiersNotMatch(class string, entityID, datasetID any, field ...string) error {
	f := fieldName(field)
	eid, did := cast.ToString(entityID), cast.ToString(datasetID)
	return IdentifiersNotMatchError.NewWith("", []error{
		fmt.Errorf(`Entity "%s" with %s (%s) not matched with dataset %s (%s).`, class, f, eid, f, did),
	}, SSMaps{{"class": class}, {"field": f}, {"id": eid}, {"dataset id": did}}, 1)
}

func NewIncompleteDataset(class string, entityID any, field ...string) error {
	f := fieldName(field)
	id := cast.ToString(entityID)
	return IncompleteDatasetError.NewWith("", []error{
		fmt.Errorf(`Entity "%s" (%s: %s) accept only complete dataset, partial/empty dataset given.`, class, f, id),
	}, SSMaps{{"class": class}, {"field": f}, {"id": id}}, 1)
}
