package workers

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

type memoryStore struct {
	key         string
	contentType string
	body        []byte
}

func (m *memoryStore) Put(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.key, m.contentType, m.body = key, contentType, data
	return "https://cdn.example.com/" + key, nil
}

func TestRenderSitemap(t *testing.T) {
	body, err := RenderSitemap([]SitemapURL{
		{Loc: "https://cricanalyzer.com/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: "https://cricanalyzer.com/news/a-b", LastMod: "2024-01-02T03:04:05Z", ChangeFreq: "daily", Priority: "0.8"},
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(body, []byte(xml.Header)))
	assert.Contains(t, string(body), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, string(body), "<lastmod>2024-01-02T03:04:05Z</lastmod>")

	var decoded urlSet
	require.NoError(t, xml.Unmarshal(body, &decoded))
	require.Len(t, decoded.URLs, 2)
	assert.Empty(t, decoded.URLs[0].LastMod)
	assert.Equal(t, "0.8", decoded.URLs[1].Priority)
}

func TestStartSitemapSchedulerDisabled(t *testing.T) {
	sched, err := StartSitemapScheduler(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestGenerateSitemap(t *testing.T) {
	db := utils.CreateTempSchema(t)

	author := models.User{Name: "Editor", Email: "editor@example.com", Role: models.RoleEditor}
	require.NoError(t, author.SetPassword("secret123"))
	require.NoError(t, db.Create(&author).Error)

	published := time.Now().Add(-time.Hour)
	scheduled := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.Team{Name: "India", ShortName: "IND", TeamType: "International"}).Error)
	require.NoError(t, db.Create(&models.Player{Name: "Jasprit Bumrah", Role: "Bowler"}).Error)
	require.NoError(t, db.Create(&models.News{Title: "Bumrah Takes Five", Excerpt: "e", Content: "c",
		CoverImage: "c.jpg", Category: "Match Reports", AuthorID: author.ID, PublishedAt: &published}).Error)
	require.NoError(t, db.Create(&models.News{Title: "Embargoed Story", Excerpt: "e", Content: "c",
		CoverImage: "c.jpg", Category: "Match Reports", AuthorID: author.ID, PublishedAt: &scheduled}).Error)

	store := &memoryStore{}
	dir := t.TempDir()
	gen := NewSitemapGenerator(db, "https://cricanalyzer.com", filepath.Join(dir, "public"), store)

	path, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "public", "sitemap.xml"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, "<loc>https://cricanalyzer.com/news/bumrah-takes-five</loc>")
	assert.Contains(t, out, "<loc>https://cricanalyzer.com/players/jasprit-bumrah</loc>")
	assert.Contains(t, out, "<loc>https://cricanalyzer.com/teams/india</loc>")
	assert.Contains(t, out, "<changefreq>hourly</changefreq>")
	assert.NotContains(t, out, "embargoed-story")

	assert.Equal(t, "sitemap.xml", store.key)
	assert.Equal(t, "application/xml", store.contentType)
	assert.Equal(t, body, store.body)
}
