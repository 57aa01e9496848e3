package usecase

import (
	"context"

	"healthvault/internal/converter"
	"healthvault/internal/delivery/dto"
	"healthvault/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	List(ctx context.Context, page, size int) (*dto.AuditLogListResponse, int64, error)
}

type auditLogUsecase struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		log:       log,
		auditRepo: auditRepo,
	}
}

// List returns a page of the audit trail, newest first.
func (u *auditLogUsecase) List(ctx context.Context, page, size int) (*dto.AuditLogListResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	logs, total, err := u.auditRepo.FindAll(ctx, size, (page-1)*size)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, 0, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, total, nil
}
