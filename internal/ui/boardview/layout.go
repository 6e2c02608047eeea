package boardview

import (
	"context"
	"strconv"
	"time"

	"github.com/zjrosen/strata/internal/cachemanager"
	"github.com/zjrosen/strata/internal/editline"
)

const layoutTTL = 5 * time.Minute

type layoutInput struct {
	text  string
	width int
}

// layoutCache memoises editline.Wrap per (width, text). Boards are redrawn
// on every key press while most item texts stay the same.
type layoutCache struct {
	store *cachemanager.InMemoryCacheManager[string, []string]
	rt    *cachemanager.ReadThroughCache[string, []string, layoutInput]
}

func newLayoutCache() *layoutCache {
	store := cachemanager.NewInMemoryCacheManager[string, []string]("layout", layoutTTL, cachemanager.DefaultCleanupInterval)
	wrap := func(_ context.Context, in layoutInput) ([]string, error) {
		return editline.Wrap(in.text, in.width), nil
	}
	return &layoutCache{
		store: store,
		rt:    cachemanager.NewReadThroughCache[string, []string, layoutInput](store, wrap, false),
	}
}

func (c *layoutCache) wrap(text string, width int) []string {
	key := strconv.Itoa(width) + "\x00" + text
	rows, _ := c.rt.GetWithRefresh(context.Background(), key, layoutInput{text: text, width: width}, layoutTTL)
	return rows
}
