package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var photoColumns = []string{
	"id", "image_base64", "image_key", "caption", "date", "uploaded_by", "uploader_name", "created_at",
}

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db DBTX
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db DBTX) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, image_base64, image_key, caption, date, uploaded_by, uploader_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.ImageBase64, photo.ImageKey, photo.Caption, photo.Date,
		photo.UploadedBy, photo.UploaderName, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", mapError(err))
	}
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query, args, err := psql.Select(photoColumns...).From("photos").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build photo query: %w", err)
	}
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", mapError(err))
	}
	return photo, nil
}

// ListByUploaders retrieves photos uploaded by any of the given users, newest first
func (r *PhotoRepository) ListByUploaders(ctx context.Context, userIDs []string) ([]*models.Photo, error) {
	query, args, err := psql.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"uploaded_by": userIDs}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build photos query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

// Delete deletes a photo by ID
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete photo: %w", ErrNotFound)
	}
	return nil
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var photo models.Photo
	err := row.Scan(
		&photo.ID, &photo.ImageBase64, &photo.ImageKey, &photo.Caption, &photo.Date,
		&photo.UploadedBy, &photo.UploaderName, &photo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
