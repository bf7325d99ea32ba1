package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/model"
	"go-blog-api/internal/service"
)

type PostHandler struct {
	service       *service.PostService
	maxUploadSize int64
}

func NewPostHandler(service *service.PostService, maxUploadSize int64) *PostHandler {
	return &PostHandler{service: service, maxUploadSize: maxUploadSize}
}

// Create handles the multipart post form; featuredImage is optional.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	image, file, err := formImage(r, "featuredImage")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFile(file)

	post, err := h.service.Create(r.Context(), user.ID, service.CreatePostInput{
		Title:         formValue(r, "title"),
		Content:       formValue(r, "content"),
		CategoryID:    formValue(r, "category"),
		Tags:          formTags(r),
		FeaturedImage: image,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Post created successfully", post)
}

func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload model.EditPostRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.service.Edit(r.Context(), user.ID, chi.URLParam(r, "postId"), payload.Content, strings.TrimSpace(payload.Category))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Post updated successfully", post)
}

func (h *PostHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.service.ToggleVisibility(r.Context(), user.ID, chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Post visibility updated", post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "postId")); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Post deleted successfully", nil)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), viewerID(r), chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, post, nil)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.PostFilter{
		AuthorUsername: strings.TrimSpace(query.Get("author")),
		CategorySlug:   strings.TrimSpace(query.Get("category")),
		Tag:            strings.TrimSpace(query.Get("tag")),
	}

	posts, meta, err := h.service.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, posts, meta)
}

// formTags accepts repeated tags fields as well as a comma separated list.
func formTags(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}

	var tags []string
	for _, raw := range r.MultipartForm.Value["tags"] {
		tags = append(tags, strings.Split(raw, ",")...)
	}
	return tags
}
