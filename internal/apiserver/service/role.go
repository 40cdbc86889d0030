package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/auth/jwt"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RoleResolver decides the effective role of a verified identity. A role
// claim in the token wins. Otherwise the profile row is consulted.
type RoleResolver struct {
	db     database.Database
	logger *zap.Logger
}

// Resolve returns "" when no role can be determined. An error means the
// profile store failed and the role is unknown.
func (r *RoleResolver) Resolve(ctx context.Context, id *jwt.Identity) (string, error) {
	if id == nil {
		return "", nil
	}
	if id.HasRoleClaim {
		return id.Role, nil
	}

	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanRoleResolve).
		WithAttrs(attribute.String(cnst.AttrSubject, id.Subject), attribute.String(cnst.AttrRoleFrom, "profile"))
	defer sc.End()

	subject, err := uuid.Parse(id.Subject)
	if err != nil {
		return "", nil
	}
	p, err := r.db.GetProfile(sc.Ctx, subject.String())
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		sc.Fail(err)
		r.logger.Error("role lookup failed", zap.String("subject", id.Subject), zap.Error(err))
		return "", fmt.Errorf("resolve role: %w", err)
	}
	return p.Role, nil
}

// IsAdmin compares case-insensitively
func IsAdmin(role string) bool {
	return strings.EqualFold(role, cnst.RoleAdmin)
}
