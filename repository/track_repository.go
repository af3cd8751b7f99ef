package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tuneshelf/model"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	GetAllTracks(ctx context.Context) ([]*model.Track, error)
	UpdateTrackTitle(ctx context.Context, trackID int64, title string) error
	DeleteTrack(ctx context.Context, trackID int64) error
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

const trackColumns = "id, title, filename, author_id, created_at, updated_at"

func scanTrack(row interface{ Scan(...any) error }) (*model.Track, error) {
	track := &model.Track{}
	err := row.Scan(&track.ID, &track.Title, &track.Filename, &track.AuthorID, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// CreateTrack adds a new track to the database. Returns
// ErrDuplicateEntry when the filename is already registered.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	query := "INSERT INTO tracks (title, filename, author_id) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, track.Title, track.Filename, track.AuthorID)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrDuplicateEntry
		}
		return 0, fmt.Errorf("failed to create track: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for track: %w", err)
	}
	return id, nil
}

// GetTrackByID retrieves a track by its ID. Returns (nil, nil) when no
// such track exists.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+trackColumns+" FROM tracks WHERE id = ?", id)
	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// GetAllTracks retrieves every track in natural storage order.
func (r *mysqlTrackRepository) GetAllTracks(ctx context.Context) ([]*model.Track, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+trackColumns+" FROM tracks")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in GetAllTracks: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllTracks: %w", err)
	}

	return tracks, nil
}

// UpdateTrackTitle renames a track. Filename and file contents are never
// touched here.
func (r *mysqlTrackRepository) UpdateTrackTitle(ctx context.Context, trackID int64, title string) error {
	query := "UPDATE tracks SET title = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, title, time.Now(), trackID)
	if err != nil {
		return fmt.Errorf("failed to update title for track ID %d: %w", trackID, err)
	}
	return nil
}

// DeleteTrack removes a track row.
func (r *mysqlTrackRepository) DeleteTrack(ctx context.Context, trackID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM tracks WHERE id = ?", trackID)
	if err != nil {
		return fmt.Errorf("failed to delete track ID %d: %w", trackID, err)
	}
	return nil
}
