package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/tablex/internal/document"
	"github.com/MeKo-Tech/tablex/internal/rotation"
)

// materializePage writes the single-page document for info, normalizes
// its orientation and fills in the page's geometry. Freshly computed
// geometry is recorded in the cache.
func (h *Handler) materializePage(doc *document.Document, info *PageInfo,
	workDir string, opts ParseOptions, cache *Cache,
) error {
	if err := doc.ExtractPage(info.Page, info.FilePath); err != nil {
		return err
	}

	if info.Layout != nil && info.Size != nil {
		// Cached geometry is trusted, but it describes the upright page
		// while the fresh extract is still raw. Re-apply the recorded
		// correction instead of analyzing again.
		if info.Rotation != rotation.None {
			h.log.Debug("restoring page rotation from cache",
				"page", info.Page, "verdict", info.Rotation.String())
			if err := h.rewriteUpright(info, workDir, info.Rotation); err != nil {
				return err
			}
		}
	} else if err := h.normalizeOrientation(info, workDir, opts); err != nil {
		return err
	}

	if opts.Flavor.RequiresImage() && info.ImagePath == "" {
		imagePath := rootName(info.FilePath) + ".png"
		if err := h.renderer.Render(info.FilePath, imagePath, opts.RenderDPI); err != nil {
			return fmt.Errorf("rendering page %d: %w", info.Page, err)
		}
		info.ImagePath = imagePath
	}

	cache.store(info)
	return nil
}

// normalizeOrientation analyzes the freshly written page and, when its
// text reads sideways, rewrites it upright and analyzes it again so the
// recorded geometry describes the corrected page.
func (h *Handler) normalizeOrientation(info *PageInfo, workDir string, opts ParseOptions) error {
	l, err := h.analyzer.Analyze(info.FilePath, opts.Layout)
	if err != nil {
		return fmt.Errorf("page %d: %w", info.Page, err)
	}

	verdict := rotation.Detect(l.Chars, l.HorizontalText, l.VerticalText, l.Width)
	if verdict != rotation.None {
		h.log.Debug("correcting page rotation",
			"page", info.Page, "verdict", verdict.String())

		if err := h.rewriteUpright(info, workDir, verdict); err != nil {
			return err
		}

		// Re-analyze the corrected page so cached geometry is upright.
		l, err = h.analyzer.Analyze(info.FilePath, opts.Layout)
		if err != nil {
			return fmt.Errorf("page %d after rotation: %w", info.Page, err)
		}
	}

	info.Rotation = verdict
	info.Layout = l
	size := l.Dimensions()
	info.Size = &size
	return nil
}

// rewriteUpright rewrites the single-page file with the corrective
// rotation applied: the skewed file is parked under the intermediate
// name, the corrected copy is written back to the target path and the
// intermediate is discarded.
func (h *Handler) rewriteUpright(info *PageInfo, workDir string, verdict rotation.Verdict) error {
	skewed := filepath.Join(workDir, rotatedFileName(info.Page))
	if err := os.Rename(info.FilePath, skewed); err != nil {
		return fmt.Errorf("staging skewed page %d: %w", info.Page, err)
	}
	if err := document.Rotate(skewed, info.FilePath, verdict.Degrees()); err != nil {
		return err
	}
	if err := os.Remove(skewed); err != nil {
		return fmt.Errorf("discarding skewed page %d: %w", info.Page, err)
	}
	return nil
}

// rootName strips the file extension from path.
func rootName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
