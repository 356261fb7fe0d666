package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/logger"
	"agroskills-platform/pkg/opengraph"
	rediscache "agroskills-platform/pkg/redis"

	"github.com/go-playground/validator/v10"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// PageMetaFetcher resolves OpenGraph metadata for a link.
type PageMetaFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*opengraph.Meta, error)
}

// FeedCache is the subset of the Redis cache used for feed pages.
type FeedCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, p string) error
}

type feedUsecase struct {
	feedRepo domain.FeedRepository
	cache    FeedCache
	meta     PageMetaFetcher
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
}

func NewFeedUsecase(feedRepo domain.FeedRepository, cache FeedCache, meta PageMetaFetcher, validate *validator.Validate, ttl time.Duration) domain.FeedUsecase {
	return &feedUsecase{
		feedRepo: feedRepo,
		cache:    cache,
		meta:     meta,
		validate: validate,
		ttl:      ttl,
		now:      time.Now,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (u *feedUsecase) ListNews(ctx context.Context, page, limit int) (*domain.Page[domain.News], error) {
	page, limit = normalizePage(page, limit)
	key := rediscache.FeedPageKey("news", page, limit)

	var cached domain.Page[domain.News]
	if u.cache != nil {
		if err := u.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, rediscache.ErrCacheMiss) {
			logger.Log.Warn("news cache read failed", "error", err)
		}
	}

	items, total, err := u.feedRepo.ListNews(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	result := &domain.Page[domain.News]{Data: items, Total: total, Page: page, TotalPages: totalPages(total, limit)}

	if u.cache != nil {
		_ = u.cache.Set(ctx, key, result, u.ttl)
	}
	return result, nil
}

func (u *feedUsecase) ListEvents(ctx context.Context, page, limit int) (*domain.Page[domain.Event], error) {
	page, limit = normalizePage(page, limit)
	key := rediscache.FeedPageKey("events", page, limit)

	var cached domain.Page[domain.Event]
	if u.cache != nil {
		if err := u.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, rediscache.ErrCacheMiss) {
			logger.Log.Warn("events cache read failed", "error", err)
		}
	}

	items, total, err := u.feedRepo.ListEvents(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	result := &domain.Page[domain.Event]{Data: items, Total: total, Page: page, TotalPages: totalPages(total, limit)}

	if u.cache != nil {
		_ = u.cache.Set(ctx, key, result, u.ttl)
	}
	return result, nil
}

// CreateNews fills missing title, description, image and source from the
// article's OpenGraph tags.
func (u *feedUsecase) CreateNews(ctx context.Context, role string, in domain.NewsInput) (*domain.News, error) {
	if !isAdmin(role) {
		return nil, apperror.Forbidden("Apenas administradores podem publicar notícias")
	}
	if err := validate(u.validate, in); err != nil {
		return nil, err
	}

	n := &domain.News{
		Titulo:    strings.TrimSpace(in.Titulo),
		Descricao: strings.TrimSpace(in.Descricao),
		ImagemURL: strings.TrimSpace(in.ImagemURL),
		FonteSite: strings.TrimSpace(in.FonteSite),
		Link:      strings.TrimSpace(in.Link),
	}
	if in.DataPublicacao != nil {
		n.DataPublicacao = *in.DataPublicacao
	} else {
		n.DataPublicacao = u.now()
	}

	if u.meta != nil && (n.Titulo == "" || n.ImagemURL == "" || n.Descricao == "" || n.FonteSite == "") {
		meta, err := u.meta.Fetch(ctx, n.Link)
		if err != nil {
			logger.Log.Warn("opengraph lookup failed", "link", n.Link, "error", err)
		} else {
			if n.Titulo == "" {
				n.Titulo = meta.Title
			}
			if n.Descricao == "" {
				n.Descricao = meta.Description
			}
			if n.ImagemURL == "" {
				n.ImagemURL = meta.Image
			}
			if n.FonteSite == "" {
				n.FonteSite = meta.SiteName
			}
		}
	}
	if n.FonteSite == "" {
		if parsed, err := url.Parse(n.Link); err == nil {
			n.FonteSite = strings.TrimPrefix(parsed.Hostname(), "www.")
		}
	}
	if n.Titulo == "" {
		return nil, apperror.BadRequest("Título: obrigatório")
	}

	if err := u.feedRepo.CreateNews(ctx, n); err != nil {
		return nil, apperror.Internal(err)
	}
	u.invalidate(ctx, "news")
	return n, nil
}

func (u *feedUsecase) CreateEvent(ctx context.Context, role string, in domain.EventInput) (*domain.Event, error) {
	if !isAdmin(role) {
		return nil, apperror.Forbidden("Apenas administradores podem publicar eventos")
	}
	if err := validate(u.validate, in); err != nil {
		return nil, err
	}

	e := &domain.Event{
		Titulo:     strings.TrimSpace(in.Titulo),
		Descricao:  strings.TrimSpace(in.Descricao),
		DataEvento: in.DataEvento,
		Horario:    strings.TrimSpace(in.Horario),
		Local:      strings.TrimSpace(in.Local),
		ImagemURL:  strings.TrimSpace(in.ImagemURL),
		Link:       strings.TrimSpace(in.Link),
	}
	if err := u.feedRepo.CreateEvent(ctx, e); err != nil {
		return nil, apperror.Internal(err)
	}
	u.invalidate(ctx, "events")
	return e, nil
}

func (u *feedUsecase) invalidate(ctx context.Context, kind string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidatePrefix(ctx, kind+":"); err != nil {
		logger.Log.Warn("feed cache invalidation failed", "kind", kind, "error", err)
	}
}
