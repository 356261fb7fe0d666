package domain

import (
	"context"
	"time"
)

// Interest bookmarks an external job for a user.
type Interest struct {
	ID            int64     `json:"id"`
	UsuarioID     string    `json:"usuario_id"`
	VagaID        int64     `json:"vaga_id"`
	DataInteresse time.Time `json:"dataInteresse"`
	Vaga          *Job      `json:"vaga,omitempty"`
}

type InterestStatus struct {
	HasInterest bool `json:"hasInterest"`
}

type InterestRepository interface {
	Create(ctx context.Context, i *Interest) error
	Delete(ctx context.Context, userID string, jobID int64) error
	Exists(ctx context.Context, userID string, jobID int64) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Interest, error)
}

type InterestUsecase interface {
	Register(ctx context.Context, userID string, jobID int64) (*Interest, error)
	Remove(ctx context.Context, userID string, jobID int64) error
	Status(ctx context.Context, userID string, jobID int64) (*InterestStatus, error)
	ListMine(ctx context.Context, userID string) ([]Interest, error)
}
