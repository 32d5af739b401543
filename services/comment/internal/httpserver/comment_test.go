package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/blog/pkg/db"
	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/ids"
	"github.com/Skotchmaster/blog/pkg/logging"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/services/comment/internal/models"
	"github.com/Skotchmaster/blog/services/comment/internal/repo"
	"github.com/Skotchmaster/blog/services/comment/internal/service"
)

type testEnv struct {
	e      *echo.Echo
	events *events.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	sdb, err := db.OpenSQLX(ctx, "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })

	rp := &repo.SQLRepo{DB: sdb, IDs: ids.MustNode(5)}
	require.NoError(t, rp.Migrate(ctx, logging.Discard()))

	rec := &events.Recorder{}
	e := echo.New()
	Register(e, &Deps{CommentHandler: &CommentHTTP{Svc: &service.CommentService{Repo: rp, Events: rec}}})
	return &testEnv{e: e, events: rec}
}

func (env *testEnv) do(method, path string, body any, email string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if email != "" {
		req.Header.Set(authmw.HeaderUserEmail, email)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) list(t *testing.T, postID int) []models.Comment {
	t.Helper()
	rec := env.do(http.MethodGet, "/api/comments/post/"+strconv.Itoa(postID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		email      string
		wantStatus int
		wantAuthor string
	}{
		{
			name:       "author from gateway header",
			body:       map[string]any{"postId": 7, "content": "nice post"},
			email:      "ann@example.com",
			wantStatus: http.StatusOK,
			wantAuthor: "ann@example.com",
		},
		{
			name:       "explicit author wins",
			body:       map[string]any{"postId": 7, "content": "nice post", "author": "bob"},
			email:      "ann@example.com",
			wantStatus: http.StatusOK,
			wantAuthor: "bob",
		},
		{
			name:       "missing post id",
			body:       map[string]any{"content": "x"},
			email:      "ann@example.com",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank content",
			body:       map[string]any{"postId": 7, "content": "   "},
			email:      "ann@example.com",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.do(http.MethodPost, "/api/comments", tt.body, tt.email)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			items := env.list(t, 7)
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, items)
				assert.Empty(t, env.events.Events())
				return
			}
			assert.Equal(t, "Comment created successfully", rec.Body.String())
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantAuthor, items[0].Author)
			assert.Equal(t, []string{"comment_created"}, env.events.Types())
		})
	}
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/comments", map[string]any{"postId": 3, "content": "bye"}, "ann@example.com").Code)

	items := env.list(t, 3)
	require.Len(t, items, 1)
	path := "/api/comments/" + strconv.FormatUint(items[0].ID, 10)

	rec := env.do(http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Comment deleted successfully", rec.Body.String())
	assert.Empty(t, env.list(t, 3))
	assert.Equal(t, []string{"comment_created", "comment_deleted"}, env.events.Types())

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodDelete, "/api/comments/x", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/comments/post/x", nil, "").Code)
}
