package handler

import "github.com/travelbook/story-api/internal/core/ports"

func (r storyRequest) toInput() ports.StoryInput {
	return ports.StoryInput{
		Title:           r.Title,
		Story:           r.Story,
		VisitedLocation: []string(r.VisitedLocation),
		ImageURL:        r.ImageURL,
		VisitedDate:     string(r.VisitedDate),
	}
}
