package domain

import (
	"context"
	"time"
)

const (
	CandidacyStatusPending  = "pendente"
	CandidacyStatusReview   = "em_analise"
	CandidacyStatusApproved = "aprovada"
	CandidacyStatusRejected = "rejeitada"
)

// Candidacy links a user to an internal job. (usuario_id, vaga_id) is unique.
type Candidacy struct {
	ID        int64     `json:"id"`
	UsuarioID string    `json:"usuario_id"`
	VagaID    int64     `json:"vaga_id"`
	Mensagem  string    `json:"mensagem,omitempty"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"data_candidatura"`
	Vaga      *Job      `json:"vaga,omitempty"`
	Usuario   *User     `json:"usuario,omitempty"`
}

type CreateCandidacyRequest struct {
	UsuarioID string `json:"usuario_id"`
	VagaID    int64  `json:"vaga_id" validate:"required,gt=0"`
	Mensagem  string `json:"mensagem" validate:"max=2000"`
}

type UpdateCandidacyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente em_analise aprovada rejeitada"`
}

type CandidacyRepository interface {
	Create(ctx context.Context, c *Candidacy) error
	GetByID(ctx context.Context, id int64) (*Candidacy, error)
	Exists(ctx context.Context, userID string, jobID int64) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Candidacy, error)
	ListByJob(ctx context.Context, jobID int64) ([]Candidacy, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type CandidacyUsecase interface {
	Apply(ctx context.Context, userID string, req CreateCandidacyRequest) (*Candidacy, error)
	ListByUser(ctx context.Context, requesterID, role, userID string) ([]Candidacy, error)
	ListByJob(ctx context.Context, role string, jobID int64) ([]Candidacy, error)
	UpdateStatus(ctx context.Context, role string, id int64, status string) (*Candidacy, error)
}
