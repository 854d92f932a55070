package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/travelbook/story-api/internal/core/ports"
)

type ImageHandler struct {
	imageService ports.ImageService
}

func NewImageHandler(imageService ports.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

type imageURLResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Upload stores the multipart file "image" and returns its public URL.
//
// @Summary      Upload an image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  imageURLResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /image-upload [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "No image uploaded")
	}

	src, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	url, err := h.imageService.Upload(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, imageURLResponse{ImageURL: url})
}

// Delete removes a previously uploaded image by its URL.
//
// @Summary      Delete an image
// @Tags         images
// @Produce      json
// @Param        imageUrl  query     string  true  "Public URL returned by the upload"
// @Success      200       {object}  messageResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /delete-image [delete]
func (h *ImageHandler) Delete(c echo.Context) error {
	imageURL := c.QueryParam("imageUrl")
	if imageURL == "" {
		return respondMessage(c, http.StatusBadRequest, "image Url is required")
	}

	if err := h.imageService.Delete(c.Request().Context(), imageURL); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "image deleted successfully"})
}

// Serve streams an uploaded image.
//
// @Summary      Download an uploaded image
// @Tags         images
// @Produce      octet-stream
// @Param        filename  path  string  true  "Stored filename"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{filename} [get]
func (h *ImageHandler) Serve(c echo.Context) error {
	name := c.Param("filename")

	rc, err := h.imageService.Open(c.Request().Context(), name)
	if err != nil {
		return respondError(c, err)
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
