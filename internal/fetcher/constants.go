package fetcher

import (
	"context"
	"fmt"

	"otogehub/pkg/models"
)

// FetchConstantFeed pulls the community internal-level feed. A feed that
// fails to decode is a fatal job error; value-level conflicts are handled
// later by the reconciler.
func (c *Client) FetchConstantFeed(ctx context.Context, url string) (models.ConstantFeed, error) {
	var feed models.ConstantFeed
	if err := c.getJSON(ctx, "constants", url, &feed); err != nil {
		return models.ConstantFeed{}, err
	}
	if len(feed.Songs) == 0 {
		return models.ConstantFeed{}, fmt.Errorf("constants: feed contains no songs")
	}
	return feed, nil
}
