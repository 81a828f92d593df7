package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	postService service.PostServicer
	baseURL     string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin, e.g. https://blog.example.com.
func NewSeoHandler(ps service.PostServicer, baseURL string) *SeoHandler {
	return &SeoHandler{postService: ps, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves robots.txt pointing at the sitemap.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
	return nil
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists every post URL.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.postService.ListPosts(r.Context(), nil)
	if err != nil {
		return appError(err, "Failed to retrieve posts for sitemap")
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(posts)),
	}
	for i, post := range posts {
		sitemap.URLs[i] = sitemapURL{
			Loc:     fmt.Sprintf("%s/posts/%d", h.baseURL, post.ID),
			LastMod: post.PublishedDate.Format(sitemapDateFormat),
		}
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to generate sitemap XML", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	w.Write(out)
	return nil
}
