package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mdimitrov/photoblog/internal/blob"
	"github.com/mdimitrov/photoblog/internal/middleware"
	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/session"
	"github.com/mdimitrov/photoblog/internal/store"
)

const maxUploadBytes = 10 << 20

type PostsHandler struct {
	posts store.Posts
	blobs blob.Store
	log   *slog.Logger
}

func NewPostsHandler(posts store.Posts, blobs blob.Store, log *slog.Logger) *PostsHandler {
	return &PostsHandler{posts: posts, blobs: blobs, log: log}
}

// Feed lists every post. sortby=old flips to oldest-first; anything else,
// including no value at all, means newest-first.
func (h *PostsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	oldestFirst := r.URL.Query().Get("sortby") == "old"
	posts, err := h.posts.ListPosts(r.Context(), oldestFirst)
	if err != nil {
		h.log.Error("list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, FeedResponse{
		PageData: PageData{
			User:    middleware.UserFrom(r.Context()),
			Flashes: session.TakeFlashes(w, r),
		},
		Posts: posts,
	})
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	name, err := h.blobs.Save(r.Context(), filepath.Ext(header.Filename), file)
	if err != nil {
		h.log.Error("save upload failed", "error", err)
		session.AddFlashes(w, r, session.Flash{Level: "error", Text: "something went wrong"})
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	username, _, _ := strings.Cut(user.Email, "@")
	_, err = h.posts.CreatePost(r.Context(), models.Post{
		Title:    r.FormValue("title"),
		Body:     r.FormValue("body"),
		Filename: name,
		AuthorID: user.ID,
		Username: username,
	})
	if err != nil {
		// Don't leave the just-stored image orphaned.
		if delErr := h.blobs.Delete(r.Context(), name); delErr != nil {
			h.log.Error("orphan blob cleanup failed", "name", name, "error", delErr)
		}
		h.log.Error("create post failed", "error", err)
		session.AddFlashes(w, r, session.Flash{Level: "error", Text: "something went wrong"})
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	posts, err := h.posts.ListPostsByAuthor(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list own posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, FeedResponse{
		PageData: PageData{User: user, Flashes: session.TakeFlashes(w, r)},
		Posts:    posts,
	})
}

func (h *PostsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, PostResponse{
		PageData: PageData{
			User:    middleware.UserFrom(r.Context()),
			Flashes: session.TakeFlashes(w, r),
		},
		Post: post,
	})
}

func (h *PostsHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	posts, err := h.posts.ListPostsByAuthor(r.Context(), id)
	if err != nil {
		h.log.Error("list posts by author failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, FeedResponse{
		PageData: PageData{
			User:    middleware.UserFrom(r.Context()),
			Flashes: session.TakeFlashes(w, r),
		},
		Posts: posts,
	})
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	if !canModify(user, post, opDeletePost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	// A blob that refuses to go away must not block deleting the post.
	if err := h.blobs.Delete(r.Context(), post.Filename); err != nil {
		h.log.Error("delete blob failed", "name", post.Filename, "error", err)
	}
	if err := h.posts.DeletePost(r.Context(), post.ID); err != nil {
		h.log.Error("delete post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	http.Redirect(w, r, "/myposts", http.StatusSeeOther)
}

func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r, chi.URLParam(r, "postId"))
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	if !canModify(user, post, opEditPost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	respondJSON(w, http.StatusOK, PostResponse{
		PageData: PageData{User: user, Flashes: session.TakeFlashes(w, r)},
		Post:     post,
	})
}

// Edit updates title and body unconditionally, swaps the image only when a
// new one was uploaded, and removes the superseded blob only after the
// record is durably saved.
func (h *PostsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r, chi.URLParam(r, "postId"))
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	if !canModify(user, post, opEditPost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	filename := post.Filename
	uploaded := false
	file, header, err := r.FormFile("newImage")
	switch {
	case err == nil:
		defer file.Close()
		name, saveErr := h.blobs.Save(r.Context(), filepath.Ext(header.Filename), file)
		if saveErr != nil {
			h.log.Error("save upload failed", "error", saveErr)
			respondError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		filename = name
		uploaded = true
	case errors.Is(err, http.ErrMissingFile):
		// keep the current image
	default:
		respondError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	err = h.posts.UpdatePost(r.Context(), post.ID, r.FormValue("title"), r.FormValue("body"), filename)
	if err != nil {
		if uploaded {
			if delErr := h.blobs.Delete(r.Context(), filename); delErr != nil {
				h.log.Error("orphan blob cleanup failed", "name", filename, "error", delErr)
			}
		}
		h.log.Error("update post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	if uploaded && post.Filename != "" {
		if err := h.blobs.Delete(r.Context(), post.Filename); err != nil {
			h.log.Error("delete superseded blob failed", "name", post.Filename, "error", err)
		}
	}

	http.Redirect(w, r, "/post/edit/"+post.ID, http.StatusSeeOther)
}

// ServeUpload streams a stored blob.
func (h *PostsHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.blobs.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		h.log.Error("open blob failed", "name", name, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load file")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Error("stream blob failed", "name", name, "error", err)
	}
}

// fetchPost validates the id, loads the post, and writes the 400/404/500
// responses itself. ok reports whether the caller should continue.
func (h *PostsHandler) fetchPost(w http.ResponseWriter, r *http.Request, id string) (*models.Post, bool) {
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return nil, false
	}
	post, err := h.posts.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return nil, false
		}
		h.log.Error("get post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return nil, false
	}
	return post, true
}
