package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/imaging"
	"agroskills-platform/pkg/security"
	"agroskills-platform/pkg/storage"

	"github.com/go-playground/validator/v10"
)

const (
	profileImageMaxDimension = 512
	profileImageQuality      = 85
)

type profileUsecase struct {
	profileRepo   domain.ProfileRepository
	store         storage.Store
	validate      *validator.Validate
	maxImageBytes int64
	now           func() time.Time
}

func NewProfileUsecase(profileRepo domain.ProfileRepository, store storage.Store, validate *validator.Validate, maxImageBytes int64) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo:   profileRepo,
		store:         store,
		validate:      validate,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

func profileImageKey(userID string) string {
	return "profile-images/" + userID + ".jpg"
}

func (u *profileUsecase) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := u.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return p, nil
}

func (u *profileUsecase) UpdateAbout(ctx context.Context, userID, about string) (*domain.Profile, error) {
	about = strings.TrimSpace(about)
	if len([]rune(about)) > 2000 {
		return nil, apperror.BadRequest("Sobre: máximo de 2000 caracteres")
	}
	if err := u.profileRepo.UpdateAbout(ctx, userID, about); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

func (u *profileUsecase) UpdateExperiences(ctx context.Context, userID string, items []domain.Experience) (*domain.Profile, error) {
	for i := range items {
		if err := validate(u.validate, items[i]); err != nil {
			return nil, err
		}
		if items[i].Current {
			items[i].EndDate = ""
		}
	}
	assignIDs(len(items), func(i int) *string { return &items[i].ID }, u.now)
	if err := u.profileRepo.UpdateExperiences(ctx, userID, items); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

func (u *profileUsecase) UpdateEducation(ctx context.Context, userID string, items []domain.Education) (*domain.Profile, error) {
	for i := range items {
		if err := validate(u.validate, items[i]); err != nil {
			return nil, err
		}
	}
	assignIDs(len(items), func(i int) *string { return &items[i].ID }, u.now)
	if err := u.profileRepo.UpdateEducation(ctx, userID, items); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

func (u *profileUsecase) UpdateSkills(ctx context.Context, userID string, items []domain.Skill) (*domain.Profile, error) {
	seen := make(map[string]bool, len(items))
	deduped := make([]domain.Skill, 0, len(items))
	for _, s := range items {
		s.Name = strings.TrimSpace(s.Name)
		if err := validate(u.validate, s); err != nil {
			return nil, err
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, s)
	}
	assignIDs(len(deduped), func(i int) *string { return &deduped[i].ID }, u.now)
	if err := u.profileRepo.UpdateSkills(ctx, userID, deduped); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

// UpdateImage accepts a base64 (or data URL) image, normalises it to a
// bounded JPEG and stores it under a per-user key.
func (u *profileUsecase) UpdateImage(ctx context.Context, userID, base64Image string) (*domain.Profile, error) {
	raw, err := imaging.DecodeDataURL(base64Image)
	if err != nil {
		return nil, apperror.BadRequest("Imagem inválida")
	}

	check := security.ValidateFile(security.KindImage, raw, u.maxImageBytes)
	if !check.Valid {
		if u.maxImageBytes > 0 && int64(len(raw)) > u.maxImageBytes {
			return nil, apperror.PayloadTooLarge("Imagem: " + check.Error)
		}
		return nil, apperror.BadRequest("Imagem: " + check.Error)
	}

	jpg, err := imaging.ResizeToJPEG(raw, profileImageMaxDimension, profileImageQuality)
	if err != nil {
		return nil, apperror.BadRequest("Imagem inválida")
	}

	obj, err := u.store.Put(ctx, profileImageKey(userID), bytes.NewReader(jpg), int64(len(jpg)), "image/jpeg")
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store profile image: %w", err))
	}

	// cache-busting version so clients pick up the new image
	url := obj.URL + "?v=" + strconv.FormatInt(u.now().Unix(), 10)
	if err := u.profileRepo.UpdateImage(ctx, userID, url); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

func (u *profileUsecase) DeleteImage(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := u.store.Delete(ctx, profileImageKey(userID)); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return nil, apperror.Internal(err)
	}
	if err := u.profileRepo.UpdateImage(ctx, userID, ""); err != nil {
		return nil, notFoundOr(err, "Perfil não encontrado")
	}
	return u.Get(ctx, userID)
}

// assignIDs fills empty ids with timestamp-based ones, matching the ids
// clients generate for unsaved entries.
func assignIDs(n int, id func(int) *string, now func() time.Time) {
	base := now().UnixMilli()
	for i := 0; i < n; i++ {
		if p := id(i); *p == "" {
			*p = strconv.FormatInt(base+int64(i), 10)
		}
	}
}
