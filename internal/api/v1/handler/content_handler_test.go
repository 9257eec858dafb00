package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/model"
	"app/internal/repository"

	"github.com/stretchr/testify/assert"
)

type fakeContentService struct {
	item      *model.ContentItem
	exportURL string
	err       error
	deleted   []string
}

func (f *fakeContentService) List(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.item == nil {
		return nil, nil
	}
	return []model.ContentItem{*f.item}, nil
}

func (f *fakeContentService) Get(ctx context.Context, contentID, accountID string) (*model.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.item, nil
}

func (f *fakeContentService) Delete(ctx context.Context, contentID, accountID string) error {
	f.deleted = append(f.deleted, contentID)
	return f.err
}

func (f *fakeContentService) Export(ctx context.Context, contentID, accountID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.exportURL, nil
}

func contentMux(svc *fakeContentService) *http.ServeMux {
	mux := http.NewServeMux()
	NewContentHandler(svc).RegisterRoutes(mux, withAccount("acct-1"))
	return mux
}

func TestContentRouting(t *testing.T) {
	svc := &fakeContentService{
		item:      &model.ContentItem{ID: "content-1", Title: "My post"},
		exportURL: "https://exports.example/content-1.json",
	}
	mux := contentMux(svc)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/content", http.StatusOK},
		{http.MethodGet, "/content/content-1", http.StatusOK},
		{http.MethodDelete, "/content/content-1", http.StatusNoContent},
		{http.MethodPost, "/content/content-1/export", http.StatusOK},
		{http.MethodGet, "/content/content-1/export", http.StatusNotFound},
		{http.MethodPost, "/content/content-1", http.StatusNotFound},
		{http.MethodGet, "/content/a/b", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
	assert.Equal(t, []string{"content-1"}, svc.deleted)
}

func TestContentNotFoundMapped(t *testing.T) {
	svc := &fakeContentService{err: repository.ErrContentNotFound}
	mux := contentMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/content/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
