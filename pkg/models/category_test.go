package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Prune(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	tree := BuildCategoryTree([]Category{
		{ID: 1, Level: 1},
		{ID: 2, Level: 2, ParentID: id(1)},
		{ID: 3, Level: 3, ParentID: id(2)},
		{ID: 4, Level: 3, ParentID: id(2)},
		{ID: 5, Level: 1},
	})

	tests := []struct {
		name string
		ids  []int64
		want map[int64][]int64
	}{
		{name: "leaf keeps ancestors", ids: []int64{4}, want: map[int64][]int64{0: {1}, 1: {2}, 2: {4}}},
		{name: "inner node keeps its pruned subtree", ids: []int64{2}, want: map[int64][]int64{0: {1}, 1: {2}, 2: {}}},
		{name: "several roots", ids: []int64{3, 5}, want: map[int64][]int64{0: {1, 5}, 1: {2}, 2: {3}}},
		{name: "nothing", ids: nil, want: map[int64][]int64{0: {}}},
		{name: "unknown id", ids: []int64{99}, want: map[int64][]int64{0: {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruned := tree.Prune(tt.ids)
			for parent, children := range tt.want {
				node := pruned.Find(parent)
				require.NotNil(t, node, parent)
				got := []int64{}
				for _, c := range node.Children {
					got = append(got, c.ID)
				}
				assert.Equal(t, children, got, parent)
			}
		})
	}

	require.Len(t, tree.Find(2).Children, 2)
	assert.Len(t, tree.Children, 2)
}
