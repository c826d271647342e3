package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKidRedactedLeavesOriginalUntouched(t *testing.T) {
	kid := Kid{
		ID:   "k1",
		Name: "Ada",
		Wishlist: []Item{
			{ID: "i1", Name: "Kite", Purchased: true, PurchasedBy: "Gran", PurchasedByEmail: "gran@example.com"},
		},
	}

	redacted := kid.Redacted()

	assert.Empty(t, redacted.Wishlist[0].PurchasedByEmail)
	assert.Equal(t, "Gran", redacted.Wishlist[0].PurchasedBy)
	assert.Equal(t, "gran@example.com", kid.Wishlist[0].PurchasedByEmail)
}

func TestRedactedItemOmitsEmailKey(t *testing.T) {
	item := Item{ID: "i1", Name: "Kite", PurchasedByEmail: "gran@example.com"}

	raw, err := json.Marshal(item.Redacted())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "purchasedByEmail")
	assert.Contains(t, fields, "purchasedAt")
	assert.Nil(t, fields["purchasedAt"])
}

func TestDatasetLookups(t *testing.T) {
	ds := &Dataset{Kids: []Kid{
		{ID: "k1", ShareToken: "tok1", Wishlist: []Item{{ID: "i1"}}},
		{ID: "k2", ShareToken: "tok2"},
	}}

	require.NotNil(t, ds.FindKid("k2"))
	assert.Nil(t, ds.FindKid("missing"))
	assert.Equal(t, "k1", ds.FindKidByShareToken("tok1").ID)
	assert.Nil(t, ds.FindKidByShareToken(""))

	item := ds.FindKid("k1").FindItem("i1")
	require.NotNil(t, item)
	item.Name = "changed"
	assert.Equal(t, "changed", ds.Kids[0].Wishlist[0].Name)
}

func TestParseAge(t *testing.T) {
	assert.Nil(t, ParseAge(nil))
	assert.Nil(t, ParseAge(json.RawMessage(`null`)))
	assert.Nil(t, ParseAge(json.RawMessage(`""`)))
	assert.Nil(t, ParseAge(json.RawMessage(`{}`)))
	assert.Equal(t, "5", *ParseAge(json.RawMessage(`"5"`)))
	assert.Equal(t, "7", *ParseAge(json.RawMessage(`7`)))
}

func TestKidDecodesNumericAge(t *testing.T) {
	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(`{"kids":[
		{"id":"1","name":"Ada","age":7,"wishlist":[]},
		{"id":"2","name":"Bo","age":"4","wishlist":[]},
		{"id":"3","name":"Cy","age":null,"wishlist":[]}
	],"migrated":true}`), &ds))

	require.Len(t, ds.Kids, 3)
	assert.Equal(t, "Ada", ds.Kids[0].Name)
	require.NotNil(t, ds.Kids[0].Age)
	assert.Equal(t, "7", *ds.Kids[0].Age)
	assert.Equal(t, "4", *ds.Kids[1].Age)
	assert.Nil(t, ds.Kids[2].Age)
	assert.True(t, ds.Migrated)
}
