package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue_JSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind ValueKind
	}{
		{"string lands as text", `"hello"`, KindText},
		{"number lands as number", `42.5`, KindNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v FieldValue
			require.NoError(t, json.Unmarshal([]byte(tc.in), &v))
			assert.Equal(t, tc.kind, v.Kind())

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tc.in, string(out))
		})
	}
}

func TestFieldValue_RejectsNonScalar(t *testing.T) {
	for _, in := range []string{`true`, `null`, `{"a":1}`, `[1,2]`} {
		var v FieldValue
		assert.Error(t, json.Unmarshal([]byte(in), &v), in)
	}
}

func TestFieldValue_Coerce(t *testing.T) {
	assert.Equal(t, KindDate, Text("2020-01-01").Coerce(FieldDate).Kind())
	assert.Equal(t, KindURL, Text("https://example.com").Coerce(FieldImageURL).Kind())
	assert.Equal(t, KindText, Text("note").Coerce(FieldTextarea).Kind())

	n := Number(7).Coerce(FieldNumber)
	assert.Equal(t, KindNumber, n.Kind())
	assert.Equal(t, 7.0, n.Float())
}

func TestEntry_FlattensOnTheWire(t *testing.T) {
	e := Entry{
		ID: "e1",
		Values: map[string]FieldValue{
			"title": Text("First post"),
			"year":  Number(2020),
		},
	}

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"e1","title":"First post","year":2020}`, string(raw))

	var back Entry
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "e1", back.ID)
	assert.Equal(t, "First post", back.Values["title"].String())
	assert.Equal(t, 2020.0, back.Values["year"].Float())
}

func TestEntry_UnmarshalRejectsNestedValues(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"_id":"e1","meta":{"nested":true}}`), &e)
	assert.Error(t, err)
}

func TestCoerceEntry(t *testing.T) {
	section := CustomSection{
		ID:   "cs1",
		Name: "Publications",
		Fields: []FieldDefinition{
			{Name: "published", Type: FieldDate},
			{Name: "citations", Type: FieldNumber},
		},
	}

	e := Entry{ID: "e1", Values: map[string]FieldValue{
		"published": Text("2021-06-01"),
		"citations": Number(12),
		"stale":     Text("kept as-is"),
	}}

	out := section.CoerceEntry(e)
	assert.Equal(t, KindDate, out.Values["published"].Kind())
	assert.Equal(t, KindNumber, out.Values["citations"].Kind())
	assert.Equal(t, KindText, out.Values["stale"].Kind())
}

func TestApplyCustomSectionLifecycle(t *testing.T) {
	doc := EmptyDocument()

	sectionJSON := json.RawMessage(`{"_id":"cs1","name":"Publications","fields":[{"name":"title","type":"text"}],"entries":[]}`)
	require.NoError(t, doc.ApplyAddCustomSection(sectionJSON))
	require.Len(t, doc.CustomSections, 1)

	require.NoError(t, doc.ApplyAddEntry("cs1", json.RawMessage(`{"_id":"e1","title":"First"}`)))
	require.NoError(t, doc.ApplyAddEntry("cs1", json.RawMessage(`{"_id":"e2","title":"Second"}`)))
	require.Len(t, doc.CustomSections[0].Entries, 2)

	require.NoError(t, doc.ApplyUpdateEntry("cs1", json.RawMessage(`{"_id":"e1","title":"First, revised"}`)))
	assert.Equal(t, "First, revised", doc.CustomSections[0].Entries[0].Values["title"].String())

	assert.Error(t, doc.ApplyAddEntry("missing", json.RawMessage(`{"_id":"e3"}`)))
	assert.Error(t, doc.ApplyUpdateEntry("cs1", json.RawMessage(`{"_id":"missing"}`)))

	doc.ApplyRemoveEntry("cs1", "e1")
	require.Len(t, doc.CustomSections[0].Entries, 1)
	assert.Equal(t, "e2", doc.CustomSections[0].Entries[0].ID)

	// Deleting the section cascades to its remaining entries.
	doc.ApplyRemoveCustomSection("cs1")
	assert.Empty(t, doc.CustomSections)
}
