package auth

import (
	"context"
	"errors"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"go.uber.org/zap"
)

const (
	OpStockSummary  = "reports.stock_summary"
	OpLowStock      = "reports.low_stock"
	OpStockMovement = "reports.stock_movement"
)

// Policy maps an operation name to the roles allowed to run it. An
// operation missing from the policy only needs an authenticated caller.
type Policy map[string][]domain.Role

func DefaultPolicy() Policy {
	return Policy{
		OpStockMovement: {domain.RoleAdmin, domain.RoleManager},
	}
}

func (p Policy) Required(op string) []domain.Role {
	return p[op]
}

// RoleLookup resolves the role of a principal from personnel records.
type RoleLookup interface {
	RoleOf(ctx context.Context, principal domain.Principal) (domain.Role, error)
}

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

type Gate struct {
	roles  RoleLookup
	policy Policy
	logger *zap.Logger
}

func NewGate(roles RoleLookup, policy Policy, logger *zap.Logger) *Gate {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{roles: roles, policy: policy, logger: logger}
}

func (g *Gate) Policy() Policy {
	return g.policy
}

// CheckAccess allows the principal when required is empty or when the
// role on its personnel record is one of required. A principal without a
// personnel record is denied. Lookup failures other than not-found are
// returned as errors.
func (g *Gate) CheckAccess(ctx context.Context, principal domain.Principal, required []domain.Role) (Decision, error) {
	if len(required) == 0 {
		return Allow(), nil
	}

	role, err := g.roles.RoleOf(ctx, principal)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Deny("role unverifiable"), nil
		}
		return Decision{}, err
	}

	for _, allowed := range required {
		if role == allowed {
			return Allow(), nil
		}
	}
	g.logger.Info("access denied",
		zap.String("email", principal.Email),
		zap.String("role", string(role)),
	)
	return Deny("insufficient permissions"), nil
}

// CheckOperation applies the policy entry for op.
func (g *Gate) CheckOperation(ctx context.Context, principal domain.Principal, op string) (Decision, error) {
	return g.CheckAccess(ctx, principal, g.policy.Required(op))
}
