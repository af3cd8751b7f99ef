package repository

import (
	"context"

	"tuneshelf/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository defines the interface for playlist data operations,
// including membership management through the playlist_tracks join table.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error)
	GetPlaylistsByUserID(ctx context.Context, userID int64) ([]*model.Playlist, error)
	RenamePlaylist(ctx context.Context, id int64, name string) error
	DeletePlaylist(ctx context.Context, id int64) error

	GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error)
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error
	DetachTrack(ctx context.Context, trackID int64) error
}

// gormPlaylistRepository implements PlaylistRepository on GORM.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new gormPlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// CreatePlaylist inserts a playlist and fills in its generated ID.
func (r *gormPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

// GetPlaylistByID retrieves a playlist. Returns (nil, nil) when no such
// playlist exists.
func (r *gormPlaylistRepository) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&playlist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &playlist, nil
}

// GetPlaylistsByUserID retrieves every playlist owned by a user.
func (r *gormPlaylistRepository) GetPlaylistsByUserID(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	playlists := make([]*model.Playlist, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	return playlists, nil
}

// RenamePlaylist updates the playlist name only.
func (r *gormPlaylistRepository) RenamePlaylist(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ?", id).
		Update("name", name).Error
}

// DeletePlaylist removes a playlist and its membership rows.
func (r *gormPlaylistRepository) DeletePlaylist(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistTrack{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
}

// GetPlaylistTracks retrieves the tracks belonging to a playlist.
func (r *gormPlaylistRepository) GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	err := r.db.WithContext(ctx).
		Table("tracks").
		Select("tracks.id, tracks.title, tracks.filename, tracks.author_id, tracks.created_at, tracks.updated_at").
		Joins("JOIN playlist_tracks pt ON pt.track_id = tracks.id").
		Where("pt.playlist_id = ?", playlistID).
		Scan(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// AddTrackToPlaylist records a membership. Adding an already-present
// track is a no-op.
func (r *gormPlaylistRepository) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID}).Error
}

// RemoveTrackFromPlaylist removes a membership. Returns
// ErrTrackNotInPlaylist when the track is not a member.
func (r *gormPlaylistRepository) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&model.PlaylistTrack{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTrackNotInPlaylist
	}
	return nil
}

// DetachTrack removes a track from every playlist it is a member of.
// Used when the track itself is deleted.
func (r *gormPlaylistRepository) DetachTrack(ctx context.Context, trackID int64) error {
	return r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Delete(&model.PlaylistTrack{}).Error
}
