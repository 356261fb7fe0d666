package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// Roles
const (
	RoleCandidate = "candidato"
	RoleCompany   = "empresa"
	RoleAdmin     = "admin"
)
