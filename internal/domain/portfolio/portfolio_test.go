package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionClassification(t *testing.T) {
	for _, s := range SingletonSections {
		assert.True(t, IsSingletonSection(s), s)
		assert.False(t, IsArraySection(s), s)
	}
	for _, s := range ArraySections {
		assert.True(t, IsArraySection(s), s)
		assert.False(t, IsSingletonSection(s), s)
	}
	assert.False(t, IsSingletonSection("customSections"))
	assert.False(t, IsArraySection("customSections"))
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestEmptyDocument_SerializesWithEmptyArrays(t *testing.T) {
	raw, err := json.Marshal(EmptyDocument())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, array := range ArraySections {
		assert.JSONEq(t, "[]", string(decoded[array]), array)
	}
	assert.JSONEq(t, "[]", string(decoded["customSections"]))
	assert.JSONEq(t, "{}", string(decoded["theme"]))
}

func TestSetSection(t *testing.T) {
	doc := EmptyDocument()

	err := doc.SetSection(SectionHero, json.RawMessage(`{"name":"Quang","intro":"Engineer"}`))
	require.NoError(t, err)
	assert.Equal(t, "Quang", doc.Hero.Name)

	err = doc.SetSection("skills", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestApplyAddUpdateRemove(t *testing.T) {
	doc := EmptyDocument()

	require.NoError(t, doc.ApplyAdd(SectionSkills, json.RawMessage(`{"_id":"s1","label":"Go","level":80}`)))
	require.NoError(t, doc.ApplyAdd(SectionSkills, json.RawMessage(`{"_id":"s2","label":"SQL","level":70}`)))
	require.Len(t, doc.Skills, 2)

	// Updating replaces exactly the matching element.
	require.NoError(t, doc.ApplyUpdate(SectionSkills, json.RawMessage(`{"_id":"s1","label":"Golang","level":85}`)))
	assert.Equal(t, "Golang", doc.Skills[0].Label)
	assert.Equal(t, "SQL", doc.Skills[1].Label)

	err := doc.ApplyUpdate(SectionSkills, json.RawMessage(`{"_id":"missing","label":"x"}`))
	assert.Error(t, err)

	require.NoError(t, doc.ApplyRemove(SectionSkills, "s1"))
	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "s2", doc.Skills[0].ID)

	// Removing an absent id leaves the array untouched.
	require.NoError(t, doc.ApplyRemove(SectionSkills, "s1"))
	assert.Len(t, doc.Skills, 1)

	assert.Error(t, doc.ApplyAdd("hero", json.RawMessage(`{}`)))
	assert.Error(t, doc.ApplyRemove("hero", "s2"))
}

func TestApplyRemove_PreservesOrder(t *testing.T) {
	doc := EmptyDocument()
	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, doc.ApplyAdd(SectionProjects, json.RawMessage(`{"_id":"`+id+`"}`)))
	}

	require.NoError(t, doc.ApplyRemove(SectionProjects, "p2"))
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "p1", doc.Projects[0].ID)
	assert.Equal(t, "p3", doc.Projects[1].ID)
}
