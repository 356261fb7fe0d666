package domain

import (
	"context"
	"time"
)

// Job types. External jobs link to a third-party page and accept interests,
// internal jobs accept candidacies.
const (
	JobTypeInternal = "interna"
	JobTypeExternal = "externa"
)

const (
	JobStatusActive = "ativa"
	JobStatusClosed = "encerrada"
)

type Job struct {
	ID          int64     `json:"id"`
	Nome        string    `json:"nome"`
	Descricao   string    `json:"descricao"`
	Cidade      string    `json:"cidade"`
	UF          string    `json:"uf"`
	Modalidade  string    `json:"modalidade"`
	Salario     string    `json:"remuneracao"`
	Beneficios  string    `json:"beneficios"`
	EmpresaID   int64     `json:"empresa_id"`
	Empresa     string    `json:"empresa"`
	Tipo        string    `json:"tipo"`
	URLExterna  string    `json:"external_url,omitempty"`
	Status      string    `json:"status"`
	CreatedByID string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsExternal reports whether the job is hosted outside the platform.
func (j *Job) IsExternal() bool {
	return j.Tipo == JobTypeExternal
}

type JobInput struct {
	Nome       string `json:"nome" validate:"required,min=3,max=150,no_emoji"`
	Descricao  string `json:"descricao" validate:"required,max=5000"`
	Cidade     string `json:"cidade" validate:"required,max=100"`
	UF         string `json:"uf" validate:"omitempty,len=2"`
	Modalidade string `json:"modalidade" validate:"required,oneof=presencial remoto hibrido"`
	Salario    string `json:"remuneracao" validate:"max=100"`
	Beneficios string `json:"beneficios" validate:"max=2000"`
	EmpresaID  int64  `json:"empresa_id" validate:"required,gt=0"`
	Tipo       string `json:"tipo" validate:"required,oneof=interna externa"`
	URLExterna string `json:"external_url" validate:"required_if=Tipo externa,omitempty,url"`
	Status     string `json:"status" validate:"omitempty,oneof=ativa encerrada"`
}

type JobFilter struct {
	Search     string
	EmpresaID  int64
	Cidade     string
	Modalidade string
	Tipo       string
	OnlyActive bool
	Page       int
	Limit      int
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	FetchByCompanyID(ctx context.Context, companyID int64) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, userID, role string, in JobInput) (*Job, error)
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	ListJobsByCompany(ctx context.Context, companyID int64) ([]Job, error)
	UpdateJob(ctx context.Context, role string, id int64, in JobInput) (*Job, error)
	DeleteJob(ctx context.Context, role string, id int64) error
}
