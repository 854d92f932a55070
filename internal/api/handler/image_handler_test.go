package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/travelbook/story-api/internal/core/domain"
)

type stubImageService struct {
	uploadFn func(ctx context.Context, originalName string, r io.Reader) (string, error)
	deleteFn func(ctx context.Context, imageURL string) error
	openFn   func(ctx context.Context, filename string) (io.ReadCloser, error)
}

func (s *stubImageService) Upload(ctx context.Context, originalName string, r io.Reader) (string, error) {
	return s.uploadFn(ctx, originalName, r)
}

func (s *stubImageService) Delete(ctx context.Context, imageURL string) error {
	return s.deleteFn(ctx, imageURL)
}

func (s *stubImageService) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.openFn(ctx, filename)
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/image-upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestImageHandler_Upload_Success(t *testing.T) {
	e := echo.New()
	stub := &stubImageService{
		uploadFn: func(ctx context.Context, originalName string, r io.Reader) (string, error) {
			data, _ := io.ReadAll(r)
			if originalName != "beach.PNG" || string(data) != "pixels" {
				t.Fatalf("unexpected upload %q %q", originalName, data)
			}
			return "http://localhost:8000/uploads/abc.png", nil
		},
	}
	handler := NewImageHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(multipartRequest(t, "image", "beach.PNG", []byte("pixels")), rec)

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["imageUrl"] != "http://localhost:8000/uploads/abc.png" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestImageHandler_Upload_MissingFile(t *testing.T) {
	e := echo.New()
	handler := NewImageHandler(&stubImageService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(multipartRequest(t, "other", "a.png", []byte("x")), rec)

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["message"] != "No image uploaded" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestImageHandler_Delete(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		err     error
		code    int
		message string
	}{
		{name: "missing param", target: "/delete-image", code: http.StatusBadRequest, message: "image Url is required"},
		{name: "absent file", target: "/delete-image?imageUrl=http://x/uploads/gone.png", err: domain.ErrImageNotFound, code: http.StatusNotFound, message: "Image not found"},
		{name: "success", target: "/delete-image?imageUrl=http://x/uploads/a.png", code: http.StatusOK, message: "image deleted successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			stub := &stubImageService{
				deleteFn: func(ctx context.Context, imageURL string) error {
					return tt.err
				},
			}
			handler := NewImageHandler(stub)

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodDelete, tt.target, nil), rec)

			if err := handler.Delete(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if resp := decodeBody(t, rec); resp["message"] != tt.message {
				t.Fatalf("unexpected payload: %+v", resp)
			}
		})
	}
}

func TestImageHandler_Serve(t *testing.T) {
	e := echo.New()
	stub := &stubImageService{
		openFn: func(ctx context.Context, filename string) (io.ReadCloser, error) {
			if filename == "a.png" {
				return io.NopCloser(strings.NewReader("pixels")), nil
			}
			return nil, domain.ErrImageNotFound
		},
	}
	handler := NewImageHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/uploads/a.png", nil), rec)
	c.SetParamNames("filename")
	c.SetParamValues("a.png")

	if err := handler.Serve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "pixels" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/uploads/gone.png", nil), rec)
	c.SetParamNames("filename")
	c.SetParamValues("gone.png")

	if err := handler.Serve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
