package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"silent-sos/internal/models"

	"go.uber.org/zap"
)

// CameraRepository 摄像头设备仓库（PostgreSQL cameras 表）
type CameraRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCameraRepository 创建摄像头仓库
func NewCameraRepository(db *sql.DB, logger *zap.Logger) *CameraRepository {
	return &CameraRepository{
		db:     db,
		logger: logger,
	}
}

const cameraColumns = `
			c.camera_id,
			c.tenant_id,
			c.serial_number,
			c.camera_name,
			c.location,
			c.status`

// GetCameraBySerialNumber 根据序列号获取摄像头（MQTT 主题中携带的是序列号）
func (r *CameraRepository) GetCameraBySerialNumber(ctx context.Context, serialNumber string) (*models.Camera, error) {
	if serialNumber == "" {
		return nil, fmt.Errorf("serial_number is required")
	}

	query := `
		SELECT` + cameraColumns + `
		FROM cameras c
		WHERE c.serial_number = $1
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, serialNumber), serialNumber)
}

// GetCameraByID 根据 camera_id 获取摄像头
func (r *CameraRepository) GetCameraByID(ctx context.Context, cameraID string) (*models.Camera, error) {
	if cameraID == "" {
		return nil, fmt.Errorf("camera_id is required")
	}

	query := `
		SELECT` + cameraColumns + `
		FROM cameras c
		WHERE c.camera_id = $1
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, cameraID), cameraID)
}

// ListActiveCameras 获取所有在线摄像头
func (r *CameraRepository) ListActiveCameras(ctx context.Context) ([]models.Camera, error) {
	query := `
		SELECT` + cameraColumns + `
		FROM cameras c
		WHERE c.status = 'active'
		ORDER BY c.camera_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		var cam models.Camera
		var location sql.NullString
		if err := rows.Scan(&cam.CameraID, &cam.TenantID, &cam.SerialNumber, &cam.CameraName, &location, &cam.Status); err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		if location.Valid {
			cam.Location = &location.String
		}
		cameras = append(cameras, cam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cameras: %w", err)
	}

	return cameras, nil
}

func (r *CameraRepository) scanOne(row *sql.Row, identifier string) (*models.Camera, error) {
	cam := &models.Camera{}
	var location sql.NullString
	err := row.Scan(
		&cam.CameraID,
		&cam.TenantID,
		&cam.SerialNumber,
		&cam.CameraName,
		&location,
		&cam.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("camera not found: %s", identifier)
		}
		return nil, fmt.Errorf("failed to query camera: %w", err)
	}
	if location.Valid {
		cam.Location = &location.String
	}
	return cam, nil
}
