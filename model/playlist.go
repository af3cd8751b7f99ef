package model

import "time"

// Playlist is a user-owned, named collection of tracks.
type Playlist struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name.
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack is one playlist membership row. The composite primary
// key keeps (playlist, track) pairs unique.
type PlaylistTrack struct {
	PlaylistID int64     `json:"playlistId" gorm:"primaryKey;autoIncrement:false"`
	TrackID    int64     `json:"trackId" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName pins the table name.
func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}
