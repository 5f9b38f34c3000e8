// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// memoryRepository resolves slugs against fixed taxonomies.
type memoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	categories map[string]string
	genres     map[string]string
	titles     map[int64]*Draft
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		categories: map[string]string{"film": "Film", "book": "Book"},
		genres:     map[string]string{"drama": "Drama", "comedy": "Comedy"},
		titles:     map[int64]*Draft{},
	}
}

func (m *memoryRepository) hydrate(id int64, draft *Draft) *Title {
	title := &Title{ID: id, Name: draft.Name, Year: draft.Year, Description: draft.Description, Genres: []reference.Entry{}}
	if draft.Category != "" {
		title.Category = &reference.Entry{Name: m.categories[draft.Category], Slug: draft.Category}
	}
	for _, slug := range draft.Genres {
		title.Genres = append(title.Genres, reference.Entry{Name: m.genres[slug], Slug: slug})
	}
	return title
}

func (m *memoryRepository) check(draft *Draft) error {
	if _, ok := m.categories[draft.Category]; draft.Category != "" && !ok {
		return validate.RequiredError(FieldCategory, "unknown")
	}
	for _, slug := range draft.Genres {
		if _, ok := m.genres[slug]; !ok {
			return validate.RequiredError(FieldGenre, "unknown")
		}
	}
	return nil
}

func (m *memoryRepository) List(_ context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches := []*Title{}
	for id, draft := range m.titles {
		switch {
		case filter.Category != "" && draft.Category != filter.Category:
		case filter.Genre != "" && !slices.Contains(draft.Genres, filter.Genre):
		case !strings.Contains(strings.ToLower(draft.Name), strings.ToLower(filter.Name)):
		case filter.Year != nil && draft.Year != *filter.Year:
		default:
			matches = append(matches, m.hydrate(id, draft))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	start := min(params.Offset(), len(matches))
	end := min(start+params.Limit, len(matches))
	return matches[start:end], len(matches), nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft, ok := m.titles[id]
	if !ok {
		return nil, ErrTitleNotFound
	}
	return m.hydrate(id, draft), nil
}

func (m *memoryRepository) Create(_ context.Context, draft *Draft) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(draft); err != nil {
		return 0, err
	}
	m.nextID++
	clone := *draft
	m.titles[m.nextID] = &clone
	return m.nextID, nil
}

func (m *memoryRepository) Update(_ context.Context, id int64, draft *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[id]; !ok {
		return ErrTitleNotFound
	}
	if err := m.check(draft); err != nil {
		return err
	}
	clone := *draft
	m.titles[id] = &clone
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[id]; !ok {
		return ErrTitleNotFound
	}
	delete(m.titles, id)
	return nil
}

var (
	admin = authz.Actor{UserID: "root", Role: sec.RoleAdmin}
	user  = authz.Actor{UserID: "u", Role: sec.RoleUser}
)

func newTestService() *Service {
	service := NewService(newMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return service
}

/*
TestService_Create checks the admin scenario: a title filed under a category
starts without a rating.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	title, err := service.Create(ctx, admin, Input{
		Name:     pointer.To("X"),
		Year:     pointer.To(2020),
		Category: pointer.To("film"),
		Genres:   &[]string{"drama", "drama", "comedy"},
	})
	require.NoError(t, err)
	assert.Nil(t, title.Rating)
	require.NotNil(t, title.Category)
	assert.Equal(t, "Film", title.Category.Name)
	assert.Len(t, title.Genres, 2)
}

func TestService_CreateRules(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	tests := []struct {
		name  string
		actor authz.Actor
		input Input
		code  string
	}{
		{"anonymous", authz.Anonymous(), Input{Name: pointer.To("X"), Year: pointer.To(2000)}, apperr.CodeUnauthorized},
		{"regular user", user, Input{Name: pointer.To("X"), Year: pointer.To(2000)}, apperr.CodeForbidden},
		{"future year", admin, Input{Name: pointer.To("X"), Year: pointer.To(2027)}, apperr.CodeValidation},
		{"missing year", admin, Input{Name: pointer.To("X")}, apperr.CodeValidation},
		{"missing name", admin, Input{Year: pointer.To(2000)}, apperr.CodeValidation},
		{"long name", admin, Input{Name: pointer.To(strings.Repeat("n", 101)), Year: pointer.To(2000)}, apperr.CodeValidation},
		{"unknown category", admin, Input{Name: pointer.To("X"), Year: pointer.To(2000), Category: pointer.To("music")}, apperr.CodeValidation},
		{"unknown genre", admin, Input{Name: pointer.To("X"), Year: pointer.To(2000), Genres: &[]string{"noir"}}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.actor, tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), fmt.Sprintf("got %v", err))
		})
	}

	_, err := service.Create(ctx, admin, Input{Name: pointer.To("Current"), Year: pointer.To(2026)})
	assert.NoError(t, err, "the current year is allowed")
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	created, err := service.Create(ctx, admin, Input{
		Name:        pointer.To("X"),
		Year:        pointer.To(2020),
		Description: pointer.To("first"),
		Category:    pointer.To("film"),
		Genres:      &[]string{"drama"},
	})
	require.NoError(t, err)

	patched, err := service.Update(ctx, admin, created.ID, Input{Name: pointer.To("Y")}, true)
	require.NoError(t, err)
	assert.Equal(t, "Y", patched.Name)
	assert.Equal(t, 2020, patched.Year)
	assert.Equal(t, "first", *patched.Description)
	assert.Equal(t, "film", patched.Category.Slug)
	assert.Len(t, patched.Genres, 1)

	replaced, err := service.Update(ctx, admin, created.ID, Input{Name: pointer.To("Z"), Year: pointer.To(1999)}, false)
	require.NoError(t, err)
	assert.Nil(t, replaced.Description)
	assert.Nil(t, replaced.Category)
	assert.Empty(t, replaced.Genres)

	_, err = service.Update(ctx, user, created.ID, Input{Name: pointer.To("W")}, true)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.Update(ctx, admin, 999, Input{Name: pointer.To("W")}, true)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, service.Delete(ctx, admin, created.ID))
	_, err = service.Get(ctx, authz.Anonymous(), created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestHandler_Titles(t *testing.T) {
	service := newTestService()
	router := NewHandler(service).Routes()

	serve := func(method, path, body string, actor authz.Actor) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if actor.Authenticated() {
			claims := &sec.AuthClaims{UserID: actor.UserID, Role: actor.Role}
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	body := `{"name":"Solaris","year":1972,"category":"film","genre":["drama"]}`
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "/", body, authz.Anonymous()).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodPost, "/", body, user).Code)

	recorder := serve(http.MethodPost, "/", body, admin)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"rating":null`)
	assert.Contains(t, recorder.Body.String(), `"category":{"name":"Film","slug":"film"}`)

	_ = serve(http.MethodPost, "/", `{"name":"Amelie","year":2001,"genre":["comedy"]}`, admin)

	recorder = serve(http.MethodGet, "/?genre=drama", "", authz.Anonymous())
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Solaris")
	assert.NotContains(t, recorder.Body.String(), "Amelie")

	recorder = serve(http.MethodGet, "/?year=abc", "", authz.Anonymous())
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(http.MethodGet, "/0", "", authz.Anonymous())
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(http.MethodPatch, "/1", `{"year":3000}`, admin)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(http.MethodDelete, "/1", "", admin)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
