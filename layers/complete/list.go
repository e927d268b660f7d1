package complete

import (
	"context"
	"io"
	"strings"

	"github.com/rclone/stratum/core"
)

// defaultListPageLimit is the backend page size flatPager requests per
// directory when the caller didn't specify one. It bounds each backend
// call, not the total output (spec §4.3).
const defaultListPageLimit = 1000

// completeList implements spec §4.3's listing decision matrix: forward
// when the backend already speaks the requested delimiter natively,
// otherwise synthesize it from whichever mode the backend does support.
func completeList(ctx context.Context, accessor core.Accessor, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	capa := accessor.Info().Capability

	switch opts.Delimiter {
	case "":
		if capa.ListWithoutDelimiter {
			return accessor.List(ctx, path, opts)
		}
		return core.ListMeta{}, newFlatPager(accessor, path, opts), nil
	case "/":
		if capa.ListWithDelimiterSlash {
			return accessor.List(ctx, path, opts)
		}
		flatOpts := opts
		flatOpts.Delimiter = ""
		_, inner, err := accessor.List(ctx, path, flatOpts)
		if err != nil {
			return core.ListMeta{}, nil, err
		}
		return core.ListMeta{}, newHierarchyPager(path, inner), nil
	default:
		return core.ListMeta{}, nil, core.NewError(core.KindUnsupported, "unsupported list delimiter %q", opts.Delimiter).
			WithOperation(string(core.OpList)).WithService(accessor.Info().Scheme)
	}
}

// flatPager emulates a recursive flat listing by walking hierarchical
// listings (spec §4.3 "flat pager"). It holds a queue of directories still
// to expand and the pager currently being drained.
type flatPager struct {
	accessor core.Accessor
	opts     core.ListOptions
	pending  []string
	current  core.Pager
}

func newFlatPager(accessor core.Accessor, anchor string, opts core.ListOptions) *flatPager {
	return &flatPager{accessor: accessor, opts: opts, pending: []string{anchor}}
}

func (p *flatPager) Next(ctx context.Context) ([]core.Entry, error) {
	for {
		if p.current == nil {
			if len(p.pending) == 0 {
				return nil, io.EOF
			}
			dir := p.pending[0]
			p.pending = p.pending[1:]

			dirOpts := p.opts
			dirOpts.Delimiter = "/"
			if dirOpts.Limit == nil {
				limit := defaultListPageLimit
				dirOpts.Limit = &limit
			}
			_, pager, err := p.accessor.List(ctx, dir, dirOpts)
			if err != nil {
				return nil, err
			}
			p.current = pager
		}

		batch, err := p.current.Next(ctx)
		if err != nil && err != io.EOF {
			return nil, err
		}
		exhausted := err == io.EOF

		var out []core.Entry
		for _, e := range batch {
			switch e.Mode {
			case core.ModeFile:
				out = append(out, e)
			case core.ModeDir:
				p.pending = append(p.pending, e.Path)
			}
		}

		if exhausted {
			p.current = nil
		}
		if len(out) > 0 {
			return out, nil
		}
		if exhausted && len(p.pending) == 0 {
			return nil, io.EOF
		}
		// Otherwise an empty non-terminal batch, or this directory just
		// drained with more still pending: loop to the next source.
	}
}

// hierarchyPager synthesizes one level of directory entries from a flat
// stream (spec §4.3 "hierarchy pager"). It tracks which immediate
// subdirectory names under anchor it has already emitted.
type hierarchyPager struct {
	anchor string
	inner  core.Pager
	seen   map[string]bool
}

func newHierarchyPager(anchor string, inner core.Pager) *hierarchyPager {
	return &hierarchyPager{anchor: anchor, inner: inner, seen: make(map[string]bool)}
}

func (p *hierarchyPager) Next(ctx context.Context) ([]core.Entry, error) {
	for {
		batch, err := p.inner.Next(ctx)
		if err != nil && err != io.EOF {
			return nil, err
		}
		exhausted := err == io.EOF

		var out []core.Entry
		for _, e := range batch {
			if e.Mode != core.ModeFile {
				continue
			}
			rest := strings.TrimPrefix(e.Path, p.anchor)
			if idx := strings.IndexByte(rest, '/'); idx >= 0 {
				dir := p.anchor + rest[:idx+1]
				if p.seen[dir] {
					continue
				}
				p.seen[dir] = true
				out = append(out, core.NewDirEntry(dir))
				continue
			}
			out = append(out, e)
		}

		if len(out) > 0 {
			return out, nil
		}
		if exhausted {
			return nil, io.EOF
		}
	}
}

var (
	_ core.Pager = (*flatPager)(nil)
	_ core.Pager = (*hierarchyPager)(nil)
)
