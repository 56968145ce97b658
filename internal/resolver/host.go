package resolver

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"MedalTally/internal/apperr"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ResolveHost 按 slug 查找届次，不存在返回 HostNotFound
func ResolveHost(ctx context.Context, tx *repository.Store, slug string) (*model.Host, error) {
	slug = strings.TrimSpace(slug)
	h, err := tx.Hosts.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.HostNotFound(slug)
	}
	return h, err
}

// Slugify "Rio 2016" -> "rio-2016"，"Athènes 2004" -> "athenes-2004"
func Slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
