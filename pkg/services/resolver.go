package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kerbaras/lucollection/pkg/sources"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultMaxSuffix bounds suffix probing when no limit is configured.
const DefaultMaxSuffix = 1000

// ExistsFunc reports whether a name is already taken on the host.
type ExistsFunc func(ctx context.Context, name string) (bool, error)

// ResolveName picks the name an asset is saved under. With overwrite set the
// base name is used as is and exists is never called. Otherwise base, base1,
// base2 and so on are probed in order and the first free one wins.
// maxSuffix <= 0 removes the bound on probing.
func ResolveName(ctx context.Context, base string, overwrite bool, exists ExistsFunc, maxSuffix int) (string, error) {
	if overwrite {
		return base, nil
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for n := 1; maxSuffix <= 0 || n <= maxSuffix; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := base + strconv.Itoa(n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			log.Debug().Str("base", base).Str("final_name", candidate).Msg("name collision resolved")
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q after %d suffixes", ErrNoFreeName, base, maxSuffix)
}

// ThemeIndex answers existence checks against the host's theme list. The list
// is fetched on first use and reused, so one index should serve exactly one
// resolution.
type ThemeIndex struct {
	host  sources.Host
	names map[string]struct{}
}

func NewThemeIndex(host sources.Host) *ThemeIndex {
	return &ThemeIndex{host: host}
}

func (x *ThemeIndex) Exists(ctx context.Context, name string) (bool, error) {
	if x.names == nil {
		list, err := x.host.ListThemes(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to list themes: %w", err)
		}
		x.names = lo.SliceToMap(list, func(n string) (string, struct{}) { return n, struct{}{} })
	}
	_, ok := x.names[name]
	return ok, nil
}
