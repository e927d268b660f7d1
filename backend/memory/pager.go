package memory

import (
	"context"
	"io"

	"github.com/rclone/stratum/core"
)

// onceShotPager hands back its whole entry set in a single batch, since an
// in-memory listing never needs real pagination.
type onceShotPager struct {
	entries []core.Entry
	done    bool
}

func (p *onceShotPager) Next(ctx context.Context) ([]core.Entry, error) {
	if p.done {
		return nil, io.EOF
	}
	p.done = true
	return p.entries, io.EOF
}
