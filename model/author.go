package model

import "time"

// Author is the uploading identity a track belongs to. One author row
// exists per uploader, named after the account's username.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
