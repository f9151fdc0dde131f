package model

import "time"

// Image is an image loaded into an editing session.
type Image struct {
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Thumbnail string    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
}
