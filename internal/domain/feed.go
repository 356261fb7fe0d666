package domain

import (
	"context"
	"time"
)

type News struct {
	ID             int64     `json:"id"`
	Titulo         string    `json:"titulo"`
	Descricao      string    `json:"descricao"`
	ImagemURL      string    `json:"imagemUrl"`
	DataPublicacao time.Time `json:"dataPublicacao"`
	FonteSite      string    `json:"fonteSite"`
	Link           string    `json:"link"`
}

type Event struct {
	ID         int64     `json:"id"`
	Titulo     string    `json:"titulo"`
	Descricao  string    `json:"descricao"`
	DataEvento time.Time `json:"dataEvento"`
	Horario    string    `json:"horario"`
	Local      string    `json:"local"`
	ImagemURL  string    `json:"imagemUrl"`
	Link       string    `json:"link"`
}

type NewsInput struct {
	Titulo         string     `json:"titulo" validate:"omitempty,max=300"`
	Descricao      string     `json:"descricao" validate:"max=5000"`
	ImagemURL      string     `json:"imagemUrl" validate:"omitempty,url"`
	DataPublicacao *time.Time `json:"dataPublicacao"`
	FonteSite      string     `json:"fonteSite" validate:"max=150"`
	Link           string     `json:"link" validate:"required,url"`
}

type EventInput struct {
	Titulo     string    `json:"titulo" validate:"required,max=300"`
	Descricao  string    `json:"descricao" validate:"max=5000"`
	DataEvento time.Time `json:"dataEvento" validate:"required"`
	Horario    string    `json:"horario" validate:"max=20"`
	Local      string    `json:"local" validate:"max=300"`
	ImagemURL  string    `json:"imagemUrl" validate:"omitempty,url"`
	Link       string    `json:"link" validate:"omitempty,url"`
}

// Page is the paginated feed shape consumed by the client.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

type FeedRepository interface {
	ListNews(ctx context.Context, limit, offset int) ([]News, int64, error)
	CreateNews(ctx context.Context, n *News) error
	ListEvents(ctx context.Context, limit, offset int) ([]Event, int64, error)
	CreateEvent(ctx context.Context, e *Event) error
}

type FeedUsecase interface {
	ListNews(ctx context.Context, page, limit int) (*Page[News], error)
	CreateNews(ctx context.Context, role string, in NewsInput) (*News, error)
	ListEvents(ctx context.Context, page, limit int) (*Page[Event], error)
	CreateEvent(ctx context.Context, role string, in EventInput) (*Event, error)
}
