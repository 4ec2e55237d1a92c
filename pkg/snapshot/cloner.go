package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sdejongh/linksnap/pkg/ignore"
	"github.com/sdejongh/linksnap/pkg/logging"
	"github.com/sdejongh/linksnap/pkg/models"
	"github.com/sdejongh/linksnap/pkg/storage"
)

// Cloner rebuilds a snapshot's directory structure elsewhere, linking every
// file back to the snapshot instead of copying content
type Cloner struct {
	backend storage.Backend
	filter  *ignore.Filter
	logger  logging.Logger
}

// NewCloner creates a cloner. Ignored names are left out of the clone.
func NewCloner(backend storage.Backend, filter *ignore.Filter, logger logging.Logger) *Cloner {
	return &Cloner{
		backend: backend,
		filter:  filter,
		logger:  logging.OrNull(logger),
	}
}

// Clone mirrors source into dest with links of the given kind.
//
// A dest that already exists as a directory is resumed: existing
// subdirectories are descended into and entries already present are left
// alone. Link failures are returned as *models.LinkError and never fall
// back to copying.
func (c *Cloner) Clone(ctx context.Context, source, dest string, kind models.LinkKind) (*models.CloneResult, error) {
	result := &models.CloneResult{}

	resumed, err := c.prepareDir(ctx, dest, &result.Stats)
	if err != nil {
		return result, err
	}
	if resumed {
		result.Resumed = true
		c.logger.Warn(ctx, "Clone destination already exists, resuming", logging.Fields{"dest": dest})
	}

	if err := c.clone(ctx, source, dest, kind, &result.Stats); err != nil {
		return result, err
	}

	c.logger.Debug(ctx, "Clone finished", logging.Fields{
		"source":       source,
		"dest":         dest,
		"link_kind":    kind,
		"files_linked": result.Stats.FilesLinked,
		"dirs_created": result.Stats.DirsCreated,
	})
	return result, nil
}

// prepareDir creates dir, reporting true when it already existed
func (c *Cloner) prepareDir(ctx context.Context, dir string, stats *models.Statistics) (bool, error) {
	info, err := c.backend.Lstat(ctx, dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("clone destination %s exists and is not a directory", dir)
		}
		return true, nil
	}

	if err := c.backend.Mkdir(ctx, dir); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	stats.DirsCreated++
	c.logger.Debug(ctx, "Created directory", logging.Fields{"path": dir})
	return false, nil
}

func (c *Cloner) clone(ctx context.Context, source, dest string, kind models.LinkKind, stats *models.Statistics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names, err := c.backend.ReadDir(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", source, err)
	}

	for _, name := range names {
		if c.filter.Match(name) {
			continue
		}
		src := filepath.Join(source, name)
		dst := filepath.Join(dest, name)

		// directories reached through symbolic links are rebuilt too
		info, err := c.backend.Stat(ctx, src)
		if err == nil && info.IsDir() {
			existed, err := c.prepareDir(ctx, dst, stats)
			if err != nil {
				return err
			}
			if existed {
				c.logger.Debug(ctx, "Directory already exists", logging.Fields{"path": dst})
			}
			if err := c.clone(ctx, src, dst, kind, stats); err != nil {
				return err
			}
			continue
		}

		exists, err := c.backend.Exists(ctx, dst)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", dst, err)
		}
		if exists {
			c.logger.Debug(ctx, "Entry already exists, not linking", logging.Fields{"path": dst})
			continue
		}
		if err := c.backend.Link(ctx, src, dst, kind); err != nil {
			c.logger.Error(ctx, "Failed to create link", err, logging.Fields{"target": src, "link": dst})
			return err
		}
		stats.FilesLinked++
		c.logger.Debug(ctx, "Linked file", logging.Fields{"target": src, "link": dst, "kind": kind})
	}

	return nil
}
