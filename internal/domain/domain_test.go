package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestScope_WithActive(t *testing.T) {
	prev := &ContentItem{ID: 1}
	next := &ContentItem{ID: 2}
	scope := NewRequestScope(nil, prev)

	t.Run("restores after success", func(t *testing.T) {
		err := scope.WithActive(next, func() error {
			assert.Same(t, next, scope.Active())
			return nil
		})
		require.NoError(t, err)
		assert.Same(t, prev, scope.Active())
	})

	t.Run("restores after error", func(t *testing.T) {
		err := scope.WithActive(next, func() error {
			return errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
		assert.Same(t, prev, scope.Active())
	})

	t.Run("restores after panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = scope.WithActive(next, func() error {
				panic("boom")
			})
		})
		assert.Same(t, prev, scope.Active())
	})

	t.Run("restores nil active item", func(t *testing.T) {
		empty := NewRequestScope(nil, nil)
		restore := empty.Activate(next)
		assert.Same(t, next, empty.Active())
		restore()
		assert.Nil(t, empty.Active())
	})
}

func TestParseShowMode(t *testing.T) {
	mode, err := ParseShowMode("query", "tag=x")
	require.NoError(t, err)
	assert.Equal(t, ShowQuery{Spec: "tag=x"}, mode)
	assert.Equal(t, "query", ShowModeName(mode))

	mode, err = ParseShowMode("all", "")
	require.NoError(t, err)
	assert.Equal(t, ShowAll{}, mode)

	mode, err = ParseShowMode("current", "")
	require.NoError(t, err)
	assert.Equal(t, ShowCurrent{}, mode)

	_, err = ParseShowMode("custom", "")
	assert.Error(t, err)
}

func TestSyncStatus_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewSyncOutcome([]string{"bad"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success_with_errors","errors":["bad"]}`, string(data))
}

func TestPOI_Clone(t *testing.T) {
	orig := &POI{
		Title:      "HQ",
		Point:      &Coordinates{Lat: 1, Lng: 2},
		Attributes: map[string]string{"title": "HQ"},
	}
	cp := orig.Clone()
	cp.Title = "changed"
	cp.Point.Lat = 9
	cp.Attributes["title"] = "changed"

	assert.Equal(t, "HQ", orig.Title)
	assert.Equal(t, 1.0, orig.Point.Lat)
	assert.Equal(t, "HQ", orig.Attributes["title"])
}

func TestMap_ReplacePOIs(t *testing.T) {
	m := NewMap(map[string]interface{}{"title": "old", "zoom": 5})
	assert.True(t, m.IsNew())
	assert.Equal(t, "old", m.Title)

	pois := []*POI{{Title: "a", Point: &Coordinates{Lat: 1, Lng: 1}}}
	m.ReplacePOIs(pois, "address")

	assert.Equal(t, "address", m.Title)
	assert.Equal(t, "address", m.MetaKey)
	assert.Equal(t, Coordinates{}, m.Center)
	assert.Equal(t, 5, m.Attributes["zoom"])
	assert.Len(t, m.POIs, 1)
}
