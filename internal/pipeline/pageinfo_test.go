package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/tablex/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPageData(t *testing.T) {
	workDir := t.TempDir()
	cachedLayout := &layout.Layout{Width: 612, Height: 792}

	tests := []struct {
		name         string
		flavor       Flavor
		cache        func() *Cache
		wantRequired bool
	}{
		{
			name:         "empty cache requires file",
			flavor:       FlavorStream,
			cache:        NewCache,
			wantRequired: true,
		},
		{
			name:   "layout without size requires file",
			flavor: FlavorStream,
			cache: func() *Cache {
				c := NewCache()
				c.Layouts[2] = cachedLayout
				return c
			},
			wantRequired: true,
		},
		{
			name:   "layout and size satisfy stream",
			flavor: FlavorStream,
			cache: func() *Cache {
				c := NewCache()
				c.Layouts[2] = cachedLayout
				c.Sizes[2] = layout.Size{Width: 612, Height: 792}
				return c
			},
			wantRequired: false,
		},
		{
			name:   "lattice additionally needs an image",
			flavor: FlavorLattice,
			cache: func() *Cache {
				c := NewCache()
				c.Layouts[2] = cachedLayout
				c.Sizes[2] = layout.Size{Width: 612, Height: 792}
				return c
			},
			wantRequired: true,
		},
		{
			name:   "fully cached lattice page",
			flavor: FlavorLattice,
			cache: func() *Cache {
				c := NewCache()
				c.Layouts[2] = cachedLayout
				c.Sizes[2] = layout.Size{Width: 612, Height: 792}
				c.Images[2] = "/somewhere/page-2.png"
				return c
			},
			wantRequired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infos := checkPageData([]int{2}, tt.flavor, tt.cache(), workDir)
			require.Len(t, infos, 1)
			assert.Equal(t, 2, infos[0].Page)
			assert.Equal(t, filepath.Join(workDir, "page-2.pdf"), infos[0].FilePath)
			assert.Equal(t, tt.wantRequired, infos[0].FileRequired)
		})
	}
}

func TestCheckPageDataKeepsSelectionOrder(t *testing.T) {
	infos := checkPageData([]int{1, 3, 7}, FlavorStream, NewCache(), t.TempDir())
	require.Len(t, infos, 3)
	assert.Equal(t, 1, infos[0].Page)
	assert.Equal(t, 3, infos[1].Page)
	assert.Equal(t, 7, infos[2].Page)
}

func TestCacheStore(t *testing.T) {
	c := NewCache()
	size := layout.Size{Width: 612, Height: 792}
	info := &PageInfo{
		Page:      4,
		Layout:    &layout.Layout{Width: 612, Height: 792},
		Size:      &size,
		ImagePath: "/tmp/page-4.png",
	}
	c.store(info)

	assert.Same(t, info.Layout, c.Layouts[4])
	assert.Equal(t, size, c.Sizes[4])
	assert.Equal(t, "/tmp/page-4.png", c.Images[4])
}

func TestCacheStoreSkipsMissingFields(t *testing.T) {
	c := NewCache()
	c.store(&PageInfo{Page: 1})
	assert.Empty(t, c.Layouts)
	assert.Empty(t, c.Sizes)
	assert.Empty(t, c.Images)
}

func TestParseFlavor(t *testing.T) {
	f, err := ParseFlavor("lattice")
	require.NoError(t, err)
	assert.Equal(t, FlavorLattice, f)
	assert.True(t, f.RequiresImage())

	f, err = ParseFlavor("Stream")
	require.NoError(t, err)
	assert.Equal(t, FlavorStream, f)
	assert.False(t, f.RequiresImage())

	_, err = ParseFlavor("magic")
	assert.Error(t, err)
}
