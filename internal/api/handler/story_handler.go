package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
)

type StoryHandler struct {
	storyService ports.StoryService
}

func NewStoryHandler(storyService ports.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// Add creates a travel story owned by the session user.
//
// @Summary      Add a travel story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      storyRequest  true  "Story details; imageUrl is required, visitedDate in epoch milliseconds"
// @Success      201   {object}  storyResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /add-travel-story [post]
func (h *StoryHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req storyRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid payload")
	}

	story, err := h.storyService.AddStory(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, storyResponse{Story: story, Message: "Added successfully"})
}

// ListMine returns the session user's stories, favourites first.
//
// @Summary      List own stories
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  storiesResponse
// @Failure      401  {object}  errorResponse
// @Router       /get-all-stories [get]
func (h *StoryHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stories, err := h.storyService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, storiesResponse{Stories: nonNil(stories)})
}

// ListAll returns the stories of every user.
//
// @Summary      List every story
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  storiesResponse
// @Failure      401  {object}  errorResponse
// @Router       /get-stories [get]
func (h *StoryHandler) ListAll(c echo.Context) error {
	stories, err := h.storyService.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, storiesResponse{Stories: nonNil(stories)})
}

// Edit replaces the editable fields of an owned story.
//
// @Summary      Edit a travel story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Story ID"
// @Param        body  body      storyRequest  true  "Story details; an empty imageUrl selects the placeholder"
// @Success      200   {object}  storyResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /edit-story/{id} [put]
func (h *StoryHandler) Edit(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req storyRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid payload")
	}

	story, err := h.storyService.EditStory(c.Request().Context(), c.Param("id"), userID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, storyResponse{Story: story, Message: "update success"})
}

// Delete removes an owned story and schedules removal of its image.
//
// @Summary      Delete a travel story
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Story ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /delete-story/{id} [delete]
func (h *StoryHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.storyService.DeleteStory(c.Request().Context(), c.Param("id"), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Travel story deleted successfully"})
}

// Favourite sets or clears the favourite flag of an owned story.
//
// @Summary      Update favourite flag
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Story ID"
// @Param        body  body      favouriteRequest  true  "Favourite flag"
// @Success      200   {object}  storyResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /update-is-favourite/{id} [put]
func (h *StoryHandler) Favourite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req favouriteRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	story, err := h.storyService.UpdateFavourite(c.Request().Context(), c.Param("id"), userID, *req.IsFavourite)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, storyResponse{Story: story, Message: "update success"})
}

// Search finds owned stories whose title, text or locations contain the query.
//
// @Summary      Search stories
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Param        query  query     string  true  "Case-insensitive search text"
// @Success      200    {object}  storiesResponse
// @Failure      404    {object}  errorResponse
// @Router       /search [get]
func (h *StoryHandler) Search(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stories, err := h.storyService.Search(c.Request().Context(), userID, c.QueryParam("query"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return respondMessage(c, http.StatusNotFound, "query is required")
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, storiesResponse{Stories: nonNil(stories)})
}

// Filter returns owned stories visited between two epoch-millisecond bounds.
//
// @Summary      Filter stories by visited date
// @Tags         stories
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  true  "Inclusive lower bound, epoch milliseconds"
// @Param        endDate    query     string  true  "Inclusive upper bound, epoch milliseconds"
// @Success      200        {object}  storiesResponse
// @Failure      500        {object}  errorResponse
// @Router       /travel-stories/filter [get]
func (h *StoryHandler) Filter(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stories, err := h.storyService.FilterByDate(c.Request().Context(), userID, c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, storiesResponse{Stories: nonNil(stories)})
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil(stories []*domain.Story) []*domain.Story {
	if stories == nil {
		return []*domain.Story{}
	}
	return stories
}
