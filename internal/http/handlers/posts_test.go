package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/auth"
	"github.com/inkwelldev/inkwell/internal/domain/post"
	"github.com/inkwelldev/inkwell/internal/http/handlers"
)

// Fake repository implementing the handlers.PostsStore interface

type fakePostsRepo struct {
	createFn func(ctx context.Context, title, content string, authorID int64) (post.Post, error)
	getFn    func(ctx context.Context, id int64) (post.PostWithAuthor, error)
	updateFn func(ctx context.Context, id int64, title, content string) (post.Post, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakePostsRepo) Create(ctx context.Context, title, content string, authorID int64) (post.Post, error) {
	if f.createFn != nil {
		return f.createFn(ctx, title, content, authorID)
	}
	return post.Post{}, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id int64) (post.PostWithAuthor, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return post.PostWithAuthor{}, post.ErrNotFound
}

func (f *fakePostsRepo) Update(ctx context.Context, id int64, title, content string) (post.Post, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, title, content)
	}
	return post.Post{}, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// mounts the posts routes behind a stub identity for the given caller

func newPostsRouter(repo *fakePostsRepo, callerID int64) *gin.Engine {
	m := auth.NewManager("posts-test-secret", time.Hour)
	h := handlers.NewPostsHandler(repo)

	r := gin.New()
	grp := r.Group("/posts", identityMiddleware(m, callerID, "caller@example.com"))
	grp.POST("/create", h.CreatePost)
	grp.GET("/:id", h.GetPost)
	grp.PUT("/update/:id", h.UpdatePost)
	grp.DELETE("/delete/:id", h.DeletePost)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request

	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func samplePost(id, authorID int64) post.PostWithAuthor {
	now := time.Now().UTC()

	return post.PostWithAuthor{
		Post: post.Post{
			ID:        id,
			Title:     "T",
			Content:   "C",
			AuthorID:  authorID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Author: post.Author{
			ID:       authorID,
			Username: "ada",
			Email:    "ada@example.com",
		},
	}
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoSetUp  func(*fakePostsRepo)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"title":"T","content":"C"}`,
			repoSetUp: func(f *fakePostsRepo) {
				f.createFn = func(ctx context.Context, title, content string, authorID int64) (post.Post, error) {
					if authorID != 3 {
						return post.Post{}, errors.New("caller identity not propagated")
					}
					return post.Post{ID: 10, Title: title, Content: content, AuthorID: authorID}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing_title",
			body:       `{"content":"C"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing_content",
			body:       `{"title":"T"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title":"T","content":"C"}`,
			repoSetUp: func(f *fakePostsRepo) {
				f.createFn = func(ctx context.Context, title, content string, authorID int64) (post.Post, error) {
					return post.Post{}, errors.New("db down")
				}
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePostsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			r := newPostsRouter(repo, 3)

			w := doJSON(t, r, http.MethodPost, "/posts/create", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus != http.StatusCreated {
				return
			}

			var p post.Post

			if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
				t.Fatalf("bad response body: %v", err)
			}

			if p.AuthorID != 3 {
				t.Fatalf("got authorId %d, want 3", p.AuthorID)
			}
		})
	}
}

func TestGetPost(t *testing.T) {
	repo := &fakePostsRepo{
		getFn: func(ctx context.Context, id int64) (post.PostWithAuthor, error) {
			if id == 10 {
				return samplePost(10, 3), nil
			}
			return post.PostWithAuthor{}, post.ErrNotFound
		},
	}

	r := newPostsRouter(repo, 3)

	t.Run("found_with_author", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/posts/10", "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		var p post.PostWithAuthor

		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("bad response body: %v", err)
		}

		if p.Title != "T" || p.Content != "C" {
			t.Fatalf("unexpected post: %+v", p)
		}

		if p.Author.ID != p.AuthorID {
			t.Fatalf("author summary %+v does not match authorId %d", p.Author, p.AuthorID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/posts/999", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("non_numeric_id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/posts/abc", "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestUpdatePost(t *testing.T) {
	newRepo := func() *fakePostsRepo {
		return &fakePostsRepo{
			getFn: func(ctx context.Context, id int64) (post.PostWithAuthor, error) {
				if id == 10 {
					return samplePost(10, 3), nil
				}
				return post.PostWithAuthor{}, post.ErrNotFound
			},
			updateFn: func(ctx context.Context, id int64, title, content string) (post.Post, error) {
				return post.Post{ID: id, Title: title, Content: content, AuthorID: 3}, nil
			},
		}
	}

	t.Run("owner_can_update", func(t *testing.T) {
		r := newPostsRouter(newRepo(), 3)

		w := doJSON(t, r, http.MethodPut, "/posts/update/10", `{"title":"T2","content":"C2"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		var p post.Post

		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("bad response body: %v", err)
		}

		if p.Title != "T2" || p.Content != "C2" {
			t.Fatalf("mutation not applied: %+v", p)
		}
	})

	t.Run("non_owner_forbidden", func(t *testing.T) {
		r := newPostsRouter(newRepo(), 4)

		w := doJSON(t, r, http.MethodPut, "/posts/update/10", `{"title":"T2","content":"C2"}`)

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("not_found", func(t *testing.T) {
		r := newPostsRouter(newRepo(), 3)

		w := doJSON(t, r, http.MethodPut, "/posts/update/999", `{"title":"T2","content":"C2"}`)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("missing_body_fields", func(t *testing.T) {
		r := newPostsRouter(newRepo(), 3)

		w := doJSON(t, r, http.MethodPut, "/posts/update/10", `{"title":"T2"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestDeletePost(t *testing.T) {
	newRepo := func(deleted *int64) *fakePostsRepo {
		return &fakePostsRepo{
			getFn: func(ctx context.Context, id int64) (post.PostWithAuthor, error) {
				if id == 10 {
					return samplePost(10, 3), nil
				}
				return post.PostWithAuthor{}, post.ErrNotFound
			},
			deleteFn: func(ctx context.Context, id int64) error {
				if deleted != nil {
					*deleted = id
				}
				return nil
			},
		}
	}

	t.Run("owner_can_delete", func(t *testing.T) {
		var deleted int64
		r := newPostsRouter(newRepo(&deleted), 3)

		w := doJSON(t, r, http.MethodDelete, "/posts/delete/10", "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if deleted != 10 {
			t.Fatalf("delete never reached the store, got id %d", deleted)
		}

		var resp map[string]string

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}

		if resp["message"] != "Post deleted successfully" {
			t.Fatalf("unexpected message: %q", resp["message"])
		}
	})

	t.Run("non_owner_forbidden", func(t *testing.T) {
		r := newPostsRouter(newRepo(nil), 4)

		w := doJSON(t, r, http.MethodDelete, "/posts/delete/10", "")

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("not_found", func(t *testing.T) {
		r := newPostsRouter(newRepo(nil), 3)

		w := doJSON(t, r, http.MethodDelete, "/posts/delete/999", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
		}
	})
}
