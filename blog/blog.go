package blog

import (
	"bytes"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"inkwell/auth"
	"inkwell/models"
	"inkwell/posts"
)

type BlogModule struct {
	store   *posts.Store
	counter *posts.ViewCounter
	tokens  *auth.TokenService
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

func NewBlogModule(store *posts.Store, counter *posts.ViewCounter, tokens *auth.TokenService) *BlogModule {
	return &BlogModule{store: store, counter: counter, tokens: tokens}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/blog", b.index)
	router.GET("/blog/:slug", b.post)

	api := router.Group("/api")
	{
		api.GET("/posts", b.listPosts)
		api.GET("/posts/:slug", b.getPost)
	}
}

func (b *BlogModule) index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	list, total, err := b.store.List(posts.ListFilter{
		Status:   models.StatusPublished,
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Page:     page,
		Limit:    posts.DefaultLimit,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "blog_error.html", gin.H{
			"error": "Failed to load posts",
		})
		return
	}

	if page < 1 {
		page = 1
	}
	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":       list,
		"totalPosts":  total,
		"totalPages":  totalPages(total, posts.DefaultLimit),
		"currentPage": page,
		"prevPage":    page - 1,
		"nextPage":    page + 1,
		"category":    c.Query("category"),
		"tag":         c.Query("tag"),
	})
}

func (b *BlogModule) post(c *gin.Context) {
	slug := c.Param("slug")

	post, err := b.store.GetBySlug(slug)
	if err != nil || !post.Published() {
		// drafts are invisible on the public surface
		c.HTML(http.StatusNotFound, "blog_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	// count the read without blocking on it; the page reports its own write
	b.counter.Bump(post.ID)
	views := post.Views + 1

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":        post,
		"contentHTML": template.HTML(renderMarkdown(post.Content)),
		"views":       views,
	})
}

// listItem mirrors the fields the list endpoint exposes; content stays out
// of list responses.
type listItem struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"coverImage"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	Views      int64    `json:"views"`
	CreatedAt  string   `json:"createdAt"`
}

func (b *BlogModule) listPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(posts.DefaultLimit)))
	if limit < 1 {
		limit = posts.DefaultLimit
	}
	if limit > posts.MaxLimit {
		limit = posts.MaxLimit
	}

	status := c.DefaultQuery("status", models.StatusPublished)
	if status != models.StatusPublished && !b.authenticated(c) {
		// listing drafts is an admin-surface read
		status = models.StatusPublished
	}

	filter := posts.ListFilter{
		Status:   status,
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Page:     page,
		Limit:    limit,
	}
	list, total, err := b.store.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	items := make([]listItem, 0, len(list))
	for _, p := range list {
		items = append(items, listItem{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			Excerpt:    p.Excerpt,
			CoverImage: p.CoverImage,
			Category:   p.Category,
			Tags:       p.Tags,
			Status:     p.Status,
			Views:      p.Views,
			CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       items,
		"totalPosts":  total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

func (b *BlogModule) getPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := b.store.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	// published reads are counted; the response carries the post-increment
	// value without waiting for the write. Draft views are never touched.
	if post.Published() {
		b.counter.Bump(post.ID)
		post.Views++
	}

	c.JSON(http.StatusOK, post)
}

func (b *BlogModule) authenticated(c *gin.Context) bool {
	token, err := c.Cookie(auth.CookieName)
	if err != nil || token == "" {
		return false
	}
	_, err = b.tokens.Verify(token)
	return err == nil
}

func totalPages(total int64, limit int) int {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return pages
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on error, fall back to the raw content rather than break the page
		return content
	}
	return buf.String()
}
