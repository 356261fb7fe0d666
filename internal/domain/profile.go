package domain

import (
	"context"
	"time"
)

// Experience, Education and Skill ids are client-generated (timestamp based)
// until the section is saved; the server keeps whatever id it receives.
type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=150"`
	Company     string `json:"company" validate:"required,max=150"`
	Location    string `json:"location,omitempty" validate:"max=150"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution" validate:"required,max=150"`
	Course      string `json:"course" validate:"required,max=150"`
	Degree      string `json:"degree,omitempty" validate:"max=80"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required,max=60"`
	Level string `json:"level,omitempty" validate:"omitempty,oneof=basico intermediario avancado especialista"`
}

type Profile struct {
	UserID          string       `json:"user_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	About           string       `json:"about"`
	Experiences     []Experience `json:"experiences"`
	Education       []Education  `json:"education"`
	Skills          []Skill      `json:"skills"`
	ProfileImageURL string       `json:"profile_image_url,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateAbout(ctx context.Context, userID, about string) error
	UpdateExperiences(ctx context.Context, userID string, items []Experience) error
	UpdateEducation(ctx context.Context, userID string, items []Education) error
	UpdateSkills(ctx context.Context, userID string, items []Skill) error
	UpdateImage(ctx context.Context, userID, url string) error
}

type ProfileUsecase interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateAbout(ctx context.Context, userID, about string) (*Profile, error)
	UpdateExperiences(ctx context.Context, userID string, items []Experience) (*Profile, error)
	UpdateEducation(ctx context.Context, userID string, items []Education) (*Profile, error)
	UpdateSkills(ctx context.Context, userID string, items []Skill) (*Profile, error)
	UpdateImage(ctx context.Context, userID, base64Image string) (*Profile, error)
	DeleteImage(ctx context.Context, userID string) (*Profile, error)
}
