package modportal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/furrctorio/furrctorio/internal/globalerrors"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageBody(page int, pageCount int, names ...string) string {
	next := "null"
	if page < pageCount {
		next = fmt.Sprintf(`"https://mods.factorio.com/api/mods?page=%d"`, page+1)
	}
	results := ""
	for i, name := range names {
		if i > 0 {
			results += ","
		}
		results += fmt.Sprintf(`{"name": %q, "title": %q, "owner": "someone", "summary": "", "downloads_count": %d}`, name, name, i)
	}
	return fmt.Sprintf(`{
		"pagination": {
			"count": 5,
			"links": {"first": null, "last": null, "next": %s, "prev": null},
			"page": %d,
			"page_count": %d,
			"page_size": 2
		},
		"results": [%s]
	}`, next, page, pageCount, results)
}

func TestPageQueryValues(t *testing.T) {
	tests := []struct {
		name     string
		query    PageQuery
		expected string
	}{
		{name: "empty", query: PageQuery{}, expected: ""},
		{name: "page and size", query: PageQuery{Page: 3, PageSize: 25}, expected: "page=3&page_size=25"},
		{name: "max size", query: PageQuery{PageSize: MaxPageSize}, expected: "page_size=max"},
		{name: "version", query: PageQuery{Version: models.Factorio11}, expected: "version=1.1"},
		{name: "namelist", query: PageQuery{Namelist: []string{"flib", "Krastorio2"}}, expected: "namelist=flib%2CKrastorio2"},
		{name: "hide deprecated", query: PageQuery{HideDeprecated: true}, expected: "hide_deprecated=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.query.values().Encode())
		})
	}
}

func TestGetPage(t *testing.T) {
	client, _ := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mods", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "1.1", r.URL.Query().Get("version"))
		writeStringResponse(t, w, pageBody(2, 3, "flib", "Krastorio2"))
	})

	page, err := client.GetPage(context.Background(), PageQuery{Page: 2, Version: models.Factorio11})
	require.NoError(t, err)

	require.NotNil(t, page.Pagination)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.False(t, page.IsLast())
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Krastorio2", page.Results[1].Name)
}

func TestGetPageError(t *testing.T) {
	client, _ := newPortal(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetPage(context.Background(), PageQuery{})

	var apiErr *globalerrors.ModAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestAllModsWalksEveryPage(t *testing.T) {
	pages := map[int][]string{
		1: {"a", "b"},
		2: {"c", "d"},
		3: {"e"},
	}
	var requested []int
	client, _ := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		requested = append(requested, page)
		writeStringResponse(t, w, pageBody(page, 3, pages[page]...))
	})

	var names []string
	err := client.AllMods(context.Background(), PageQuery{PageSize: 2}, func(mod models.ModSummary) error {
		names = append(names, mod.Name)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, requested)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}

func TestAllModsStopsWithoutPagination(t *testing.T) {
	calls := 0
	client, _ := newPortal(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeStringResponse(t, w, `{"results": [{"name": "flib"}]}`)
	})

	count := 0
	err := client.AllMods(context.Background(), PageQuery{}, func(models.ModSummary) error {
		count++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, count)
}

func TestAllModsVisitorErrorStopsWalk(t *testing.T) {
	stop := errors.New("enough")
	calls := 0
	client, _ := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeStringResponse(t, w, pageBody(page, 3, "a", "b"))
	})

	err := client.AllMods(context.Background(), PageQuery{}, func(mod models.ModSummary) error {
		if mod.Name == "b" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestAllModsPropagatesPageErrors(t *testing.T) {
	client, _ := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeStringResponse(t, w, pageBody(1, 2, "a"))
	})

	visited := 0
	err := client.AllMods(context.Background(), PageQuery{}, func(models.ModSummary) error {
		visited++
		return nil
	})

	assert.ErrorIs(t, err, &globalerrors.ModAPIError{Name: pageListName})
	assert.Equal(t, 1, visited)
}

func TestAllModsHonoursCancelledContext(t *testing.T) {
	client, _ := newPortal(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.AllMods(ctx, PageQuery{}, func(models.ModSummary) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
