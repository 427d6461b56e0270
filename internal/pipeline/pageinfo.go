package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/MeKo-Tech/tablex/internal/layout"
	"github.com/MeKo-Tech/tablex/internal/rotation"
)

// PageInfo is the per-page record the materializer maintains for one
// extraction run.
type PageInfo struct {
	// Page is the 1-based index in the source document.
	Page int
	// Layout holds analyzed geometry, nil until computed or supplied.
	Layout *layout.Layout
	// Size holds upright page dimensions, nil until known.
	Size *layout.Size
	// ImagePath is the rendered raster artifact, empty until rendered.
	ImagePath string
	// FilePath is where the single-page document lives in the work dir.
	FilePath string
	// FileRequired marks pages whose single-page file must be written
	// because geometry is not fully cached.
	FileRequired bool
	// Rotation records the correction applied during materialization.
	Rotation rotation.Verdict
}

// Cache carries previously computed per-page geometry between requests
// within one extraction run. It is never persisted.
type Cache struct {
	Layouts   map[int]*layout.Layout
	Sizes     map[int]layout.Size
	Images    map[int]string
	Rotations map[int]rotation.Verdict
}

// NewCache returns an empty cache. Callers get a fresh instance per run;
// cache maps are never shared defaults.
func NewCache() *Cache {
	return &Cache{
		Layouts:   make(map[int]*layout.Layout),
		Sizes:     make(map[int]layout.Size),
		Images:    make(map[int]string),
		Rotations: make(map[int]rotation.Verdict),
	}
}

// store records freshly computed geometry for a page. The rotation
// verdict travels with the layout: cached geometry describes the upright
// page, and the verdict is what turns a raw re-extract back into it.
func (c *Cache) store(info *PageInfo) {
	if info.Layout != nil {
		c.Layouts[info.Page] = info.Layout
		c.Rotations[info.Page] = info.Rotation
	}
	if info.Size != nil {
		c.Sizes[info.Page] = *info.Size
	}
	if info.ImagePath != "" {
		c.Images[info.Page] = info.ImagePath
	}
}

// pageFileName is the deterministic single-page file name for a page.
func pageFileName(page int) string {
	return fmt.Sprintf("page-%d.pdf", page)
}

// rotatedFileName is the intermediate name a skewed page is parked under
// while the corrected copy is written back to the target path.
func rotatedFileName(page int) string {
	return fmt.Sprintf("p-%d_rotated.pdf", page)
}

// checkPageData builds the initial PageInfo list for the selected pages,
// resolving cache hits and marking which pages still need a materialized
// file. Lattice flavor additionally requires a cached image.
func checkPageData(selected []int, flavor Flavor, cache *Cache, workDir string) []*PageInfo {
	infos := make([]*PageInfo, 0, len(selected))
	for _, page := range selected {
		info := &PageInfo{
			Page:     page,
			FilePath: filepath.Join(workDir, pageFileName(page)),
		}
		if l, ok := cache.Layouts[page]; ok {
			info.Layout = l
		}
		if s, ok := cache.Sizes[page]; ok {
			size := s
			info.Size = &size
		}
		if img, ok := cache.Images[page]; ok {
			info.ImagePath = img
		}
		if r, ok := cache.Rotations[page]; ok {
			info.Rotation = r
		}

		info.FileRequired = info.Layout == nil || info.Size == nil ||
			(flavor.RequiresImage() && info.ImagePath == "")
		infos = append(infos, info)
	}
	return infos
}
