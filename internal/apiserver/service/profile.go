package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/common/dto"
	"go.uber.org/zap"
)

// ProfileService reads profiles. Rows are provisioned out of band.
type ProfileService struct {
	db     database.Database
	logger *zap.Logger
}

// Me returns the profile keyed by the caller's subject
func (s *ProfileService) Me(ctx context.Context, subject string) (*dto.Profile, error) {
	if subject == "" {
		return nil, ErrMissingSubject
	}
	id, err := parseID(subject)
	if err != nil {
		return nil, err
	}
	p, err := s.db.GetProfile(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		s.logger.Warn("profile not found", zap.String("subject", id))
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("get profile failed", zap.String("subject", id), zap.Error(err))
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &dto.Profile{ID: p.ID, FullName: p.FullName, Email: p.Email, Role: p.Role}, nil
}

// Save provisions or overwrites a profile
func (s *ProfileService) Save(ctx context.Context, p dto.Profile) (*dto.Profile, error) {
	id, err := parseID(p.ID)
	if err != nil {
		return nil, err
	}
	row := &database.Profile{ID: id, FullName: p.FullName, Email: p.Email, Role: p.Role}
	if err := s.db.SaveProfile(ctx, row); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("profile saved", zap.String("subject", id), zap.String("role", p.Role))
	p.ID = id
	return &p, nil
}
