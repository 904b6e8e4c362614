package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const Folder = "backups/profiles"

var tracer = otel.Tracer("backup_usecase")

// Snapshot is the exported document.
type Snapshot struct {
	TakenAt  time.Time          `json:"taken_at"`
	Count    int                `json:"count"`
	Profiles []*profile.Profile `json:"profiles"`
}

type BackupUseCase struct {
	profiles profile.Repository
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

func NewBackupUseCase(profiles profile.Repository, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		profiles: profiles,
		uploader: uploader,
		logger:   log,
		now:      time.Now,
	}
}

// Execute exports every profile as one JSON document and uploads it.
func (uc *BackupUseCase) Execute(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "BackupUseCase.Execute")
	defer span.End()

	uc.logger.Info("Starting profile backup...")

	profiles, err := uc.profiles.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list profiles for backup", err)
		return "", err
	}

	takenAt := uc.now().UTC()
	body, err := json.Marshal(Snapshot{TakenAt: takenAt, Count: len(profiles), Profiles: profiles})
	if err != nil {
		return "", apperror.NewInternal("failed to encode backup", err)
	}

	publicID := fmt.Sprintf("profiles-%s.json", takenAt.Format("2006-01-02_15-04-05"))
	url, err := uc.uploader.Upload(ctx, bytes.NewReader(body), Folder, publicID)
	if err != nil {
		uc.logger.Error("Failed to upload backup to Cloudinary", err)
		return "", apperror.NewInternal("failed to upload backup", err)
	}

	uc.logger.Info("Profile backup completed and uploaded successfully",
		zap.String("url", url),
		zap.String("public_id", publicID),
		zap.Int("profiles", len(profiles)),
	)
	return url, nil
}
