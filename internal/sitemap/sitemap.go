// Package sitemap renders the XML sitemap over the public content:
// active listings and published posts, plus the static entry points.
package sitemap

import (
	"strconv"
	"strings"
	"text/template"
	"time"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/controller/listing"
	"github.com/chirofind/chirofind/internal/db/controller/post"
)

const sitemapTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
{{- range .URLs}}
  <url>
    <loc>{{.Loc}}</loc>
    <lastmod>{{.LastMod}}</lastmod>
    <changefreq>{{.ChangeFreq}}</changefreq>
  </url>
{{- end}}
</urlset>
`

var tmpl = template.Must(template.New("sitemap").Parse(sitemapTemplate)) //nolint:gochecknoglobals

// URL is one sitemap entry.
type URL struct {
	Loc        string
	LastMod    string
	ChangeFreq string
}

type data struct {
	URLs []URL
}

// Generate renders the sitemap for the given site base URL.
func Generate(db *gorm.DB, baseURL string) (string, error) {
	base := strings.TrimRight(baseURL, "/")

	urls := []URL{
		{Loc: base + "/", LastMod: today(), ChangeFreq: "daily"},
		{Loc: base + "/blog", LastMod: today(), ChangeFreq: "daily"},
	}

	listings, _, err := listing.GetAll(db, listing.Filter{ActiveOnly: true})
	if err != nil {
		return "", err
	}

	for _, l := range listings {
		urls = append(urls, URL{
			Loc:        base + "/listings/" + strconv.FormatUint(l.ID, 10),
			LastMod:    l.UpdatedAt.Format(time.DateOnly),
			ChangeFreq: "weekly",
		})
	}

	posts, _, err := post.GetAll(db, post.Filter{PublishedOnly: true})
	if err != nil {
		return "", err
	}

	for _, p := range posts {
		urls = append(urls, URL{
			Loc:        base + "/blog/" + p.Slug,
			LastMod:    p.UpdatedAt.Format(time.DateOnly),
			ChangeFreq: "monthly",
		})
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data{URLs: urls}); err != nil {
		return "", err
	}

	return out.String(), nil
}

func today() string {
	return time.Now().Format(time.DateOnly)
}
