package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []Section {
	return []Section{
		{
			ID:    "s1",
			Title: "AI",
			Categories: []Category{
				{
					ID:    "c1",
					Title: "Chat",
					Icon:  "💬",
					Items: []Item{
						{Slug: "gpt", Title: "GPT"},
						{Slug: "claude", Title: "Claude"},
					},
				},
				{ID: "c2", Title: "Image"},
			},
		},
		{ID: "s2", Title: "Crypto"},
	}
}

func TestNormalizeSectionsRecomputesCounts(t *testing.T) {
	tree := sampleTree()
	tree[0].Categories[0].Count = 99 // stale derived value

	tree = NormalizeSections(tree)

	assert.Equal(t, 2, tree[0].Categories[0].Count)
	assert.Equal(t, 0, tree[0].Categories[1].Count)
}

func TestNormalizeSectionsReplacesNilSlices(t *testing.T) {
	tree := NormalizeSections(sampleTree())

	assert.NotNil(t, tree[0].Categories[1].Items)
	assert.NotNil(t, tree[1].Categories)

	assert.NotNil(t, NormalizeSections(nil))
	assert.Empty(t, NormalizeSections(nil))
}

func TestValidateSections(t *testing.T) {
	require.NoError(t, ValidateSections(sampleTree()))
	require.NoError(t, ValidateSections([]Section{}))

	missingID := sampleTree()
	missingID[0].ID = ""
	assert.Error(t, ValidateSections(missingID))

	missingCategoryTitle := sampleTree()
	missingCategoryTitle[0].Categories[0].Title = ""
	assert.Error(t, ValidateSections(missingCategoryTitle))

	missingSlug := sampleTree()
	missingSlug[0].Categories[0].Items[0].Slug = ""
	assert.Error(t, ValidateSections(missingSlug))
}

func TestFindHelpers(t *testing.T) {
	tree := sampleTree()

	sec := FindSection(tree, "s1")
	require.NotNil(t, sec)
	assert.Equal(t, "AI", sec.Title)
	assert.Nil(t, FindSection(tree, "missing"))

	cat := FindCategory(sec, "c1")
	require.NotNil(t, cat)
	assert.Nil(t, FindCategory(sec, "missing"))
	assert.Nil(t, FindCategory(nil, "c1"))

	item := FindItem(cat, "gpt")
	require.NotNil(t, item)
	assert.Equal(t, "GPT", item.Title)
	assert.Nil(t, FindItem(cat, "missing"))
	assert.Nil(t, FindItem(nil, "gpt"))
}

func TestRemoveItemRemovesExactlyOne(t *testing.T) {
	tree := sampleTree()
	cat := FindCategory(FindSection(tree, "s1"), "c1")

	require.True(t, RemoveItem(cat, "gpt"))

	require.Len(t, cat.Items, 1)
	assert.Equal(t, "claude", cat.Items[0].Slug)
	// Siblings untouched
	assert.Len(t, tree[0].Categories, 2)
	assert.Len(t, tree, 2)

	assert.False(t, RemoveItem(cat, "gpt"))
}

func TestRemoveSectionAndCategory(t *testing.T) {
	tree := sampleTree()

	sec := FindSection(tree, "s1")
	require.True(t, RemoveCategory(sec, "c2"))
	assert.Len(t, sec.Categories, 1)
	assert.False(t, RemoveCategory(sec, "c2"))

	tree, removed := RemoveSection(tree, "s2")
	require.True(t, removed)
	assert.Len(t, tree, 1)

	tree, removed = RemoveSection(tree, "s2")
	assert.False(t, removed)
	assert.Len(t, tree, 1)
}
