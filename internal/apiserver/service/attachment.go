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

// AttachmentService manages metadata only. Deleting a row leaves the stored
// file untouched.
type AttachmentService struct {
	resource[dto.AttachmentInput, database.Attachment, dto.Attachment]
}

func newAttachmentService(db database.Database, v *validation.Validator, logger *zap.Logger, now func() time.Time) *AttachmentService {
	return &AttachmentService{resource[dto.AttachmentInput, database.Attachment, dto.Attachment]{
		entity:   "attachment",
		db:       db,
		validate: v,
		logger:   logger.Named("attachment"),
		now:      now,
		get:      db.GetAttachment,
		insert:   db.CreateAttachment,
		write:    db.UpdateAttachment,
		remove:   db.DeleteAttachment,
		toRow: func(id string, createdAt time.Time, in *dto.AttachmentInput) *database.Attachment {
			return &database.Attachment{
				ID:        id,
				Name:      in.Name,
				Type:      in.Type,
				FileName:  in.FileName,
				FileURL:   in.FileURL,
				CreatedAt: createdAt,
			}
		},
		createdAt: func(a *database.Attachment) time.Time { return a.CreatedAt },
		toOut: func(a *database.Attachment) dto.Attachment {
			return dto.Attachment{
				ID:        a.ID,
				Name:      a.Name,
				Type:      a.Type,
				FileName:  a.FileName,
				FileURL:   a.FileURL,
				CreatedAt: a.CreatedAt.UTC(),
			}
		},
	}}
}

func (s *AttachmentService) List(ctx context.Context, f database.AttachmentFilter) ([]dto.Attachment, error) {
	rows, err := s.db.ListAttachments(ctx, f)
	if err != nil {
		s.logger.Error("list failed", zap.Any("filter", f), zap.Error(err))
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return s.outs(rows), nil
}
