package domain

import (
	"errors"
	"net/url"
	"path"
	"strings"
	"time"
)

var (
	ErrStoryNotFound = errors.New("travel story not found")
	ErrImageNotFound = errors.New("image not found")
)

// Story is a single travel-journal entry. UserID and ID never change after creation.
type Story struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation []string  `json:"visitedLocation"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
	IsFavourite     bool      `json:"isFavourite"`
	CreatedOn       time.Time `json:"createdOn"`
}

// ImageFilename returns the trailing path element of an image URL, or "" when
// the URL does not name a file.
func ImageFilename(imageURL string) string {
	raw := strings.TrimSpace(imageURL)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(p)
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}
