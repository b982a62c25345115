package entity_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/entity"
	"github.com/wecisecode/datastructures/logger"
	"github.com/wecisecode/datastructures/merrs"
)

type pageData struct {
	entity.Dataset
	ID    int
	Title string
}

type translationNode struct {
	mock.Mock
	lang collection.Key
}

func (n *translationNode) Import(data string) error {
	return n.Called(data).Error(0)
}

func (n *translationNode) Export() string {
	return n.Called().String(0)
}

func newBridge(buf *bytes.Buffer) *entity.Bridge {
	b := entity.NewBridge("Page")
	b.Log = logger.New(&logger.Option{Level: logger.TRACE, Console: buf, ConsoleLevel: -1})
	return b
}

func TestDataset(t *testing.T) {
	d := &pageData{ID: 1}
	assert.False(t, d.IsComplete())
	assert.True(t, d.SetCompletion(true).IsComplete())
	d.SetCompletion(false)
	assert.False(t, d.IsComplete())

	ident := entity.DatasetIdent(d)
	assert.Len(t, ident, 8)
	assert.Equal(t, ident, entity.DatasetIdent(pageData{}))
	assert.NotEqual(t, ident, entity.DatasetIdent(&entity.Dataset{}))
}

func TestMatchIDs(t *testing.T) {
	b := entity.NewBridge("Page", "uid")
	assert.NoError(t, b.MatchIDs(5, 5))
	assert.NoError(t, b.MatchIDs(0, 5))
	assert.NoError(t, b.MatchIDs(5, nil))
	assert.NoError(t, b.MatchIDs("", "a"))

	err := b.MatchIDs(5, 6)
	require.Error(t, err)
	assert.True(t, merrs.IdentifiersNotMatchError.Contains(err))
	assert.Equal(t, `Entity "Page" with uid (5) not matched with dataset uid (6).`, merrs.MError(err).Message())

	err = b.MatchIDs(5, "5")
	assert.True(t, merrs.IdentifiersNotMatchError.Contains(err))
}

func TestValidateDataset(t *testing.T) {
	b := entity.NewBridge("Page")
	d := &pageData{ID: 3}
	err := b.ValidateDataset(d.ID, d)
	require.Error(t, err)
	assert.True(t, merrs.IncompleteDatasetError.Contains(err))
	v, _ := merrs.InformValue(err, "id")
	assert.Equal(t, "3", v)

	d.SetCompletion(true)
	assert.NoError(t, b.ValidateDataset(d.ID, d))

	var nilds *pageData
	assert.Error(t, b.ValidateDataset(4, nilds))
	assert.Error(t, b.ValidateDataset(4, nil))
}

func TestLookup(t *testing.T) {
	b := entity.NewBridge("Page", "slug")
	records := collection.New(collection.NewEntry("home", 1), collection.NewEntry(7, 2))
	v, err := entity.Lookup(b, records, "home")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = entity.Lookup(b, records, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = entity.Lookup(b, records, "about")
	require.Error(t, err)
	assert.True(t, errors.Is(err, merrs.EntityNotFoundError))
	assert.Equal(t, `Entity "Page" with slug (about) not found.`, merrs.MError(err).Message())
}

func TestImportTranslations(t *testing.T) {
	buf := &bytes.Buffer{}
	b := newBridge(buf)

	en := &translationNode{lang: collection.StrKey("en")}
	fr := &translationNode{lang: collection.StrKey("fr")}
	fr.On("Import", "Bonjour").Return(nil).Once()
	bridge := collection.New(collection.NewEntry("en", en), collection.NewEntry("fr", fr))

	data := collection.New(collection.NewEntry("fr", "Bonjour"), collection.NewEntry("de", "Hallo"))

	created := []collection.Key{}
	var de *translationNode
	err := entity.ImportTranslations(b, bridge, data, func(lang collection.Key) (*translationNode, error) {
		created = append(created, lang)
		de = &translationNode{lang: lang}
		de.On("Import", "Hallo").Return(nil).Once()
		return de, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []collection.Key{collection.StrKey("de")}, created)
	assert.Equal(t, collection.Keys("fr", "de"), bridge.Keys())
	assert.Same(t, fr, bridge.GetValue(collection.StrKey("fr")))
	assert.Same(t, de, bridge.GetValue(collection.StrKey("de")))
	en.AssertNotCalled(t, "Import", mock.Anything)
	fr.AssertExpectations(t)
	de.AssertExpectations(t)

	assert.Contains(t, buf.String(), "Page translation en removed")
	assert.Contains(t, buf.String(), "Page translation fr imported")
	assert.Contains(t, buf.String(), "Page translation de created")
}

func TestImportTranslationsStopsOnError(t *testing.T) {
	b := newBridge(&bytes.Buffer{})
	fr := &translationNode{}
	fr.On("Import", "Bonjour").Return(errors.New("broken"))
	bridge := collection.New(collection.NewEntry("fr", fr))
	data := collection.New(collection.NewEntry("fr", "Bonjour"), collection.NewEntry("de", "Hallo"))

	err := entity.ImportTranslations(b, bridge, data, func(lang collection.Key) (*translationNode, error) {
		t.Fatalf("create called for %s", lang)
		return nil, nil
	})
	assert.EqualError(t, err, "broken")
	assert.False(t, bridge.Has(collection.StrKey("de")))

	createErr := merrs.ErrProgram.New("no node for language")
	err = entity.ImportTranslations(b, collection.New[*translationNode](), data, func(lang collection.Key) (*translationNode, error) {
		return nil, createErr
	})
	assert.Same(t, createErr, err)
}

func TestExportTranslations(t *testing.T) {
	en := &translationNode{}
	en.On("Export").Return("Hello")
	fr := &translationNode{}
	fr.On("Export").Return("Bonjour")
	bridge := collection.New(collection.NewEntry("en", en), collection.NewEntry("fr", fr))

	out := entity.ExportTranslations[*translationNode, string](bridge)
	assert.Equal(t, collection.Keys("en", "fr"), out.Keys())
	assert.Equal(t, []string{"Hello", "Bonjour"}, out.Values())
}
