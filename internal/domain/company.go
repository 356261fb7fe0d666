package domain

import (
	"context"
	"time"
)

type Company struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	CNPJ             string    `json:"cnpj"`
	CorporateName    string    `json:"corporate_name"`
	Address          string    `json:"address"`
	Obs              string    `json:"obs"`
	Responsible      string    `json:"responsible"`
	ResponsibleEmail string    `json:"responsible_email"`
	IsActive         bool      `json:"is_active"`
	Slug             string    `json:"slug"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyInput is the create/update payload.
type CompanyInput struct {
	Name             string `json:"name" validate:"required,min=2,max=150,no_emoji"`
	CNPJ             string `json:"cnpj" validate:"required,cnpj"`
	CorporateName    string `json:"corporate_name" validate:"max=200"`
	Address          string `json:"address" validate:"max=300"`
	Obs              string `json:"obs" validate:"max=2000"`
	Responsible      string `json:"responsible" validate:"omitempty,max=150,valid_name"`
	ResponsibleEmail string `json:"responsible_email" validate:"omitempty,email"`
	IsActive         *bool  `json:"is_active"`
}

// CompanyOption is the compact shape used by select inputs.
type CompanyOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CompanyFilter struct {
	Search string
	Active *bool
}

type CompanyCount struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type CompanyRepository interface {
	List(ctx context.Context, filter CompanyFilter) ([]Company, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	Create(ctx context.Context, c *Company) error
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id int64) error
	Options(ctx context.Context) ([]CompanyOption, error)
	Count(ctx context.Context) (*CompanyCount, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

type CompanyUsecase interface {
	List(ctx context.Context, filter CompanyFilter) ([]Company, error)
	Get(ctx context.Context, id int64) (*Company, error)
	Create(ctx context.Context, role string, in CompanyInput) (*Company, error)
	Update(ctx context.Context, role string, id int64, in CompanyInput) (*Company, error)
	Delete(ctx context.Context, role string, id int64) error
	Options(ctx context.Context) ([]CompanyOption, error)
	Count(ctx context.Context) (*CompanyCount, error)
	ExportXLSX(ctx context.Context, role string, filter CompanyFilter) ([]byte, error)
}
