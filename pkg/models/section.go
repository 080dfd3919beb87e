package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Item is a single tool or influencer entry, the leaf of the content tree.
type Item struct {
	Slug            string   `json:"slug" bson:"slug" binding:"required"`
	Title           string   `json:"title" bson:"title"`
	Description     string   `json:"description" bson:"description"`
	Type            string   `json:"type,omitempty" bson:"type,omitempty"` // tool or influencer
	Logo            string   `json:"logo,omitempty" bson:"logo,omitempty"`
	Website         string   `json:"website,omitempty" bson:"website,omitempty"`
	LongDescription []string `json:"longDescription,omitempty" bson:"longDescription,omitempty"`
	Pros            []string `json:"pros,omitempty" bson:"pros,omitempty"`
	Cons            []string `json:"cons,omitempty" bson:"cons,omitempty"`
	UseCases        []string `json:"useCases,omitempty" bson:"useCases,omitempty"`
	Pricing         string   `json:"pricing,omitempty" bson:"pricing,omitempty"`
	EaseOfUse       string   `json:"easeOfUse,omitempty" bson:"easeOfUse,omitempty"`
	Contributor     string   `json:"contributor,omitempty" bson:"contributor,omitempty"`
	ContributorLink string   `json:"contributorLink,omitempty" bson:"contributorLink,omitempty"`
	Categories      []string `json:"categories,omitempty" bson:"categories,omitempty"` // titles of categories this item belongs to
	Featured        bool     `json:"featured,omitempty" bson:"featured,omitempty"`
}

// Category groups Items within a Section. Count is derived from Items and
// recomputed on every save; incoming values are ignored.
type Category struct {
	ID          string   `json:"id" bson:"id" binding:"required"`
	Title       string   `json:"title" bson:"title" binding:"required"`
	Count       int      `json:"count" bson:"count"`
	Icon        string   `json:"icon,omitempty" bson:"icon,omitempty"`
	Items       []Item   `json:"items" bson:"items" binding:"dive"`
	DefaultPros []string `json:"defaultPros,omitempty" bson:"defaultPros,omitempty"`
	DefaultCons []string `json:"defaultCons,omitempty" bson:"defaultCons,omitempty"`
}

// Section is a top-level grouping of Categories.
type Section struct {
	ID         string     `json:"id" bson:"id" binding:"required"`
	Title      string     `json:"title" bson:"title" binding:"required"`
	Categories []Category `json:"categories" bson:"categories" binding:"dive"`
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// ValidateSections checks that every node in the tree is well-formed.
// Identifier uniqueness is intentionally not checked; ids are the caller's
// responsibility.
func ValidateSections(sections []Section) error {
	for i := range sections {
		if err := validate.Struct(&sections[i]); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

// NormalizeSections recomputes derived fields and replaces nil child slices
// with empty ones so the tree always marshals as arrays.
func NormalizeSections(sections []Section) []Section {
	if sections == nil {
		return []Section{}
	}
	for i := range sections {
		if sections[i].Categories == nil {
			sections[i].Categories = []Category{}
		}
		for j := range sections[i].Categories {
			cat := &sections[i].Categories[j]
			if cat.Items == nil {
				cat.Items = []Item{}
			}
			cat.Count = len(cat.Items)
		}
	}
	return sections
}

// FindSection returns a pointer into sections for the section with the
// given id, or nil if no such section exists.
func FindSection(sections []Section, id string) *Section {
	for i := range sections {
		if sections[i].ID == id {
			return &sections[i]
		}
	}
	return nil
}

// FindCategory returns a pointer into a section for the category with the
// given id.
func FindCategory(section *Section, id string) *Category {
	if section == nil {
		return nil
	}
	for i := range section.Categories {
		if section.Categories[i].ID == id {
			return &section.Categories[i]
		}
	}
	return nil
}

// FindItem returns a pointer into a category for the item with the given
// slug.
func FindItem(category *Category, slug string) *Item {
	if category == nil {
		return nil
	}
	for i := range category.Items {
		if category.Items[i].Slug == slug {
			return &category.Items[i]
		}
	}
	return nil
}

// RemoveSection deletes the section with the given id, reporting whether a
// section was removed.
func RemoveSection(sections []Section, id string) ([]Section, bool) {
	for i := range sections {
		if sections[i].ID == id {
			return append(sections[:i], sections[i+1:]...), true
		}
	}
	return sections, false
}

// RemoveCategory deletes the category with the given id from a section.
func RemoveCategory(section *Section, id string) bool {
	if section == nil {
		return false
	}
	for i := range section.Categories {
		if section.Categories[i].ID == id {
			section.Categories = append(section.Categories[:i], section.Categories[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveItem deletes the item with the given slug from a category.
func RemoveItem(category *Category, slug string) bool {
	if category == nil {
		return false
	}
	for i := range category.Items {
		if category.Items[i].Slug == slug {
			category.Items = append(category.Items[:i], category.Items[i+1:]...)
			return true
		}
	}
	return false
}
