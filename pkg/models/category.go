package models

import (
	"fmt"
	"sort"
)

// MaxCategoryLevel is the depth of leaf categories
const MaxCategoryLevel = 3

// Category is a node of the catalog tree
type Category struct {
	ID        int64        `json:"id"`
	Name      Translations `json:"name"`
	ParentID  *int64       `json:"parent_id,omitempty"`
	Level     int          `json:"level"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
	Children  []*Category  `json:"children"`
}

// BuildCategoryTree assembles flat rows into a tree under a synthetic root with id 0.
// Rows whose parent is missing are attached to the root.
func BuildCategoryTree(rows []Category) *Category {
	root := &Category{ID: 0, Level: 0, Children: []*Category{}}
	nodes := make(map[int64]*Category, len(rows))
	for i := range rows {
		c := rows[i]
		c.Children = []*Category{}
		nodes[c.ID] = &c
	}
	for _, c := range nodes {
		parent := root
		if c.ParentID != nil {
			if p, ok := nodes[*c.ParentID]; ok {
				parent = p
			}
		}
		parent.Children = append(parent.Children, c)
	}
	sortChildren(root)
	return root
}

func sortChildren(c *Category) {
	sort.Slice(c.Children, func(i, j int) bool { return c.Children[i].ID < c.Children[j].ID })
	for _, child := range c.Children {
		sortChildren(child)
	}
}

// Find returns the node with the given id in the subtree
func (c *Category) Find(id int64) *Category {
	if c.ID == id {
		return c
	}
	for _, child := range c.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// LeafIDs returns the ids of all leaves of the subtree, including c itself when it is a leaf
func (c *Category) LeafIDs() []int64 {
	if len(c.Children) == 0 {
		return []int64{c.ID}
	}
	var ids []int64
	for _, child := range c.Children {
		ids = append(ids, child.LeafIDs()...)
	}
	return ids
}

// Prune returns a copy of the subtree keeping only the given categories and
// their ancestors. The receiver itself is always kept.
func (c *Category) Prune(ids []int64) *Category {
	keep := make(map[int64]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	out, _ := c.prune(keep)
	return out
}

func (c *Category) prune(keep map[int64]bool) (*Category, bool) {
	out := *c
	out.Children = []*Category{}
	for _, child := range c.Children {
		if pruned, ok := child.prune(keep); ok {
			out.Children = append(out.Children, pruned)
		}
	}
	return &out, keep[c.ID] || len(out.Children) > 0
}

// NewCategory is the payload for creating a category
type NewCategory struct {
	Name      Translations `json:"name"`
	ParentID  *int64       `json:"parent_id,omitempty"`
	Level     int          `json:"level"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
}

// Validate checks the create payload
func (n *NewCategory) Validate() error {
	if err := n.Name.Validate("name"); err != nil {
		return err
	}
	if n.Level < 1 || n.Level > MaxCategoryLevel {
		return fmt.Errorf("%w: level must be between 1 and %d", ErrInvalidPayload, MaxCategoryLevel)
	}
	if n.Level > 1 && n.ParentID == nil {
		return fmt.Errorf("%w: parent_id is required below the top level", ErrInvalidPayload)
	}
	return nil
}

// UpdateCategory is the payload for updating a category
type UpdateCategory struct {
	Name      Translations `json:"name,omitempty"`
	ParentID  *int64       `json:"parent_id,omitempty"`
	Level     *int         `json:"level,omitempty"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
}

// Validate checks the update payload
func (u *UpdateCategory) Validate() error {
	if u.Name != nil {
		if err := u.Name.Validate("name"); err != nil {
			return err
		}
	}
	if u.Level != nil && (*u.Level < 1 || *u.Level > MaxCategoryLevel) {
		return fmt.Errorf("%w: level must be between 1 and %d", ErrInvalidPayload, MaxCategoryLevel)
	}
	return nil
}

// CategoryAttr links an attribute to a leaf category
type CategoryAttr struct {
	ID     int64 `json:"id"`
	CatID  int64 `json:"cat_id"`
	AttrID int64 `json:"attr_id"`
}

// NewCategoryAttr is the payload for linking an attribute to a category
type NewCategoryAttr struct {
	CatID  int64 `json:"cat_id"`
	AttrID int64 `json:"attr_id"`
}

// Validate checks the payload
func (n *NewCategoryAttr) Validate() error {
	if n.CatID <= 0 || n.AttrID <= 0 {
		return fmt.Errorf("%w: cat_id and attr_id must be positive", ErrInvalidPayload)
	}
	return nil
}

// OldCategoryAttr identifies a link to remove
type OldCategoryAttr struct {
	CatID  int64 `json:"cat_id"`
	AttrID int64 `json:"attr_id"`
}
