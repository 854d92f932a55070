package handler

import (
	"encoding/json"
	"errors"

	"github.com/travelbook/story-api/internal/core/domain"
)

// epochMillis accepts a visited date sent either as a JSON number or as a
// numeric string and keeps its literal text for the service to parse.
type epochMillis string

func (m *epochMillis) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = epochMillis(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("visitedDate must be a number or a string")
	}
	*m = epochMillis(n.String())
	return nil
}

// locationList accepts a list of place names or a single name.
type locationList []string

func (l *locationList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = locationList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.New("visitedLocation must be a list of strings")
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// storyRequest is the body of both add and edit.
type storyRequest struct {
	Title           string       `json:"title"`
	Story           string       `json:"story"`
	VisitedLocation locationList `json:"visitedLocation"`
	ImageURL        string       `json:"imageUrl"`
	VisitedDate     epochMillis  `json:"visitedDate"`
}

type favouriteRequest struct {
	IsFavourite *bool `json:"isFavourite" validate:"required"`
}

type storyResponse struct {
	Story   *domain.Story `json:"story"`
	Message string        `json:"message"`
}

type storiesResponse struct {
	Stories []*domain.Story `json:"stories"`
}
