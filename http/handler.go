package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/picshelf/picshelf"
)

// DefaultMaxUploadSize caps multipart uploads when no limit is configured.
const DefaultMaxUploadSize = 32 << 20 // 32 MiB

type GalleryService interface {
	List(ctx context.Context) ([]picshelf.Image, error)
	Upload(ctx context.Context, req picshelf.UploadRequest, content io.Reader) (picshelf.Image, error)
	Rename(ctx context.Context, id int64, name string) (picshelf.Image, error)
	DeleteSelected(ctx context.Context, ids []int64) (int64, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (picshelf.Token, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	MaxUploadSize int64
	CORS          CORSConfig

	// Files, when set, is mounted under /files/ so object URLs produced by
	// the filesystem store resolve against this server.
	Files http.Handler
}

// Handler provides HTTP handlers for the gallery API.
type Handler struct {
	config  HandlerConfig
	gallery GalleryService
	auth    AuthService
}

// NewHandler creates a new Handler with the given configuration and services.
func NewHandler(config *HandlerConfig, gallery GalleryService, auth AuthService) *Handler {
	h := &Handler{
		config:  *config,
		gallery: gallery,
		auth:    auth,
	}
	if h.config.MaxUploadSize <= 0 {
		h.config.MaxUploadSize = DefaultMaxUploadSize
	}
	return h
}

// Router returns an http.Handler with the gallery routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/images", h.handleListImages)
	r.Post("/insert", h.handleInsert)
	r.Put("/update/{id}", h.handleUpdate)
	r.Delete("/delete_selected", h.handleDeleteSelected)
	r.Post("/login", h.handleLogin)

	if h.config.Files != nil {
		r.Handle("/files/*", http.StripPrefix("/files/", h.config.Files))
	}

	return r
}

func (h *Handler) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.List(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, images)
}

type insertResponse struct {
	S3URL string `json:"s3_url"`
}

func (h *Handler) handleInsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)

	file, header, err := r.FormFile("user_file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		WriteError(w, http.StatusBadRequest, "No selected file")
		return
	}

	req := picshelf.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	img, err := h.gallery.Upload(r.Context(), req, file)
	if err != nil {
		if errors.Is(err, picshelf.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, "Invalid file name")
			return
		}
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, insertResponse{S3URL: img.StorageURL})
}

type updateRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Image not found")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.gallery.Rename(r.Context(), id, req.Name); err != nil {
		switch {
		case errors.Is(err, picshelf.ErrNotFound):
			WriteError(w, http.StatusNotFound, "Image not found")
		case errors.Is(err, picshelf.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, "Invalid image name")
		default:
			HandleError(w, err)
		}
		return
	}

	_ = WriteJSON(w, http.StatusOK, MessageResponse{Message: "Image updated successfully"})
}

type deleteSelectedRequest struct {
	ImageIDs []int64 `json:"imageIds"`
}

func (h *Handler) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	var req deleteSelectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.gallery.DeleteSelected(r.Context(), req.ImageIDs); err != nil {
		if errors.Is(err, picshelf.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, "No images selected")
			return
		}
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, MessageResponse{Message: "Selected images deleted successfully"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, picshelf.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, picshelf.ErrUnauthorized):
			WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		default:
			HandleError(w, err)
		}
		return
	}

	_ = WriteJSON(w, http.StatusOK, loginResponse{
		Message:     "Login successful!",
		AccessToken: token.Access,
	})
}
