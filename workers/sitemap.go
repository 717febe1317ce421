package workers

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cricanalyzer/utils"
)

const (
	sitemapFile  = "sitemap.xml"
	sitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type sitemapRow struct {
	Slug      string
	UpdatedAt time.Time
}

type section struct {
	table      string
	path       string
	changeFreq string
	priority   string
	scope      func(*gorm.DB) *gorm.DB
}

var sections = []section{
	{table: "news", path: "/news/", changeFreq: "daily", priority: "0.8", scope: func(db *gorm.DB) *gorm.DB {
		return db.Where("published_at IS NOT NULL AND published_at <= ?", time.Now()).Order("published_at DESC")
	}},
	{table: "players", path: "/players/", changeFreq: "weekly", priority: "0.7"},
	{table: "teams", path: "/teams/", changeFreq: "weekly", priority: "0.7"},
}

// SitemapGenerator renders the public sitemap from the content tables.
type SitemapGenerator struct {
	db       *gorm.DB
	hostname string
	outDir   string
	store    utils.MediaStore
}

// NewSitemapGenerator writes into outDir. store is optional; when set the
// rendered file is uploaded there as well.
func NewSitemapGenerator(db *gorm.DB, hostname, outDir string, store utils.MediaStore) *SitemapGenerator {
	return &SitemapGenerator{db: db, hostname: hostname, outDir: outDir, store: store}
}

func (g *SitemapGenerator) staticURLs() []SitemapURL {
	return []SitemapURL{
		{Loc: g.hostname + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: g.hostname + "/news", ChangeFreq: "hourly", Priority: "0.9"},
		{Loc: g.hostname + "/matches", ChangeFreq: "hourly", Priority: "0.9"},
	}
}

// URLs lists every sitemap entry: static pages first, then news, players
// and teams.
func (g *SitemapGenerator) URLs(ctx context.Context) ([]SitemapURL, error) {
	urls := g.staticURLs()
	for _, s := range sections {
		var rows []sitemapRow
		q := g.db.WithContext(ctx).Table(s.table).Select("slug, updated_at").Where("slug <> ''")
		if s.scope != nil {
			q = s.scope(q)
		} else {
			q = q.Order("name")
		}
		if err := q.Find(&rows).Error; err != nil {
			return nil, errors.Wrapf(err, "sitemap: list %s", s.table)
		}
		for _, row := range rows {
			urls = append(urls, SitemapURL{
				Loc:        g.hostname + s.path + row.Slug,
				LastMod:    row.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: s.changeFreq,
				Priority:   s.priority,
			})
		}
	}
	return urls, nil
}

// RenderSitemap encodes urls as a sitemaps.org urlset document.
func RenderSitemap(urls []SitemapURL) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{XMLNS: sitemapXMLNS, URLs: urls}); err != nil {
		return nil, errors.Wrap(err, "sitemap: encode")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Generate renders the sitemap and returns the path it was written to.
func (g *SitemapGenerator) Generate(ctx context.Context) (string, error) {
	urls, err := g.URLs(ctx)
	if err != nil {
		return "", err
	}
	body, err := RenderSitemap(urls)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return "", errors.Wrap(err, "sitemap: create output dir")
	}
	path := filepath.Join(g.outDir, sitemapFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", errors.Wrap(err, "sitemap: write")
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", errors.Wrap(err, "sitemap: replace")
	}
	if g.store != nil {
		if _, err := g.store.Put(ctx, sitemapFile, bytes.NewReader(body), "application/xml"); err != nil {
			return path, errors.Wrap(err, "sitemap: upload")
		}
	}
	utils.Log.WithFields(logrus.Fields{"path": path, "urls": len(urls)}).Info("[Sitemap] written")
	return path, nil
}

// StartSitemapScheduler regenerates the sitemap every interval, starting
// immediately. A non-positive interval disables it and returns nil.
func StartSitemapScheduler(ctx context.Context, gen *SitemapGenerator, interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "sitemap: scheduler")
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := gen.Generate(ctx); err != nil {
				utils.Log.WithError(err).Error("[Sitemap] generation failed")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, errors.Wrap(err, "sitemap: schedule job")
	}
	sched.Start()
	return sched, nil
}
