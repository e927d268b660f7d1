package local

import (
	"context"
	"io"

	"github.com/rclone/stratum/core"
)

// onceShotPager hands back a full WalkDir result in a single batch; the
// walk itself already happened before the pager was constructed.
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
