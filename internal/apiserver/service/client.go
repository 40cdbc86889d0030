package service

import (
	"context"
	"fmt"
	"time"

	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/validation"
	"github.com/techmine/techmine/internal/common/dto"
	"go.uber.org/zap"
)

type ClientService struct {
	resource[dto.ClientInput, database.Client, dto.Client]
}

func newClientService(db database.Database, v *validation.Validator, logger *zap.Logger, now func() time.Time) *ClientService {
	return &ClientService{resource[dto.ClientInput, database.Client, dto.Client]{
		entity:   "client",
		db:       db,
		validate: v,
		logger:   logger.Named("client"),
		now:      now,
		get:      db.GetClient,
		insert:   db.CreateClient,
		write:    db.UpdateClient,
		remove:   db.DeleteClient,
		toRow: func(id string, createdAt time.Time, in *dto.ClientInput) *database.Client {
			return &database.Client{
				ID:            id,
				Name:          in.Name,
				ContactPerson: in.ContactPerson,
				Email:         in.Email,
				Phone:         in.Phone,
				CreatedAt:     createdAt,
			}
		},
		createdAt: func(c *database.Client) time.Time { return c.CreatedAt },
		toOut: func(c *database.Client) dto.Client {
			return dto.Client{
				ID:            c.ID,
				Name:          c.Name,
				ContactPerson: c.ContactPerson,
				Email:         c.Email,
				Phone:         c.Phone,
				CreatedAt:     c.CreatedAt.UTC(),
			}
		},
	}}
}

func (s *ClientService) List(ctx context.Context, f database.ClientFilter) ([]dto.Client, error) {
	rows, err := s.db.ListClients(ctx, f)
	if err != nil {
		s.logger.Error("list failed", zap.Any("filter", f), zap.Error(err))
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return s.outs(rows), nil
}
