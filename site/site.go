package site

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/models"
	"inkwell/posts"
)

// MessageRelay is what the contact and newsletter forms need from the
// external relay.
type MessageRelay interface {
	SendContact(name, email, message string) error
	SendNewsletter(email string) error
}

type SiteModule struct {
	store  *posts.Store
	relay  MessageRelay
	domain string
}

func NewSiteModule(store *posts.Store, relay MessageRelay, domain string) *SiteModule {
	return &SiteModule{
		store:  store,
		relay:  relay,
		domain: strings.TrimRight(domain, "/"),
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.home)
	router.GET("/about", s.about)
	router.GET("/contact", s.contactPage)
	router.POST("/contact", s.contactPost)
	router.POST("/newsletter", s.newsletterPost)
	router.GET("/sitemap.xml", s.sitemap)
	router.GET("/robots.txt", s.robots)

	api := router.Group("/api")
	{
		api.POST("/contact", s.apiContact)
		api.POST("/newsletter", s.apiNewsletter)
	}
}

func (s *SiteModule) home(c *gin.Context) {
	recent, _, err := s.store.List(posts.ListFilter{
		Status: models.StatusPublished,
		Page:   1,
		Limit:  3,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "site_error.html", gin.H{"error": "Failed to load posts"})
		return
	}

	c.HTML(http.StatusOK, "site_home.html", gin.H{"posts": recent})
}

func (s *SiteModule) about(c *gin.Context) {
	c.HTML(http.StatusOK, "site_about.html", gin.H{})
}

func (s *SiteModule) contactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "site_contact.html", gin.H{})
}

func (s *SiteModule) contactPost(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	message := strings.TrimSpace(c.PostForm("message"))

	if name == "" || email == "" || message == "" {
		c.HTML(http.StatusBadRequest, "site_contact.html", gin.H{
			"error": "Name, email and message are required",
			"name":  name,
			"email": email,
		})
		return
	}

	if err := s.relay.SendContact(name, email, message); err != nil {
		c.HTML(http.StatusInternalServerError, "site_contact.html", gin.H{
			"error": "Failed to send message, please try again later",
			"name":  name,
			"email": email,
		})
		return
	}

	c.HTML(http.StatusOK, "site_contact.html", gin.H{
		"success": "Message sent successfully",
	})
}

func (s *SiteModule) newsletterPost(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		c.HTML(http.StatusBadRequest, "site_home.html", gin.H{
			"newsletterError": "Email is required",
		})
		return
	}

	if err := s.relay.SendNewsletter(email); err != nil {
		c.HTML(http.StatusInternalServerError, "site_home.html", gin.H{
			"newsletterError": "Failed to subscribe, please try again later",
		})
		return
	}

	c.HTML(http.StatusOK, "site_home.html", gin.H{
		"newsletterSuccess": "Subscribed successfully",
	})
}

func (s *SiteModule) apiContact(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if err := s.relay.SendContact(req.Name, req.Email, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully"})
}

func (s *SiteModule) apiNewsletter(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if err := s.relay.SendNewsletter(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscribed successfully"})
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (s *SiteModule) sitemap(c *gin.Context) {
	set := sitemapSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.domain + "/"},
			{Loc: s.domain + "/blog"},
			{Loc: s.domain + "/about"},
			{Loc: s.domain + "/contact"},
		},
	}

	// every published article belongs in the map, however many pages that takes
	for page := 1; ; page++ {
		published, _, err := s.store.List(posts.ListFilter{
			Status: models.StatusPublished,
			Page:   page,
			Limit:  posts.MaxLimit,
		})
		if err != nil || len(published) == 0 {
			break
		}
		for _, p := range published {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:     s.domain + "/blog/" + p.Slug,
				LastMod: p.UpdatedAt.UTC().Format("2006-01-02"),
			})
		}
		if len(published) < posts.MaxLimit {
			break
		}
	}

	c.XML(http.StatusOK, set)
}

func (s *SiteModule) robots(c *gin.Context) {
	body := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin\n" +
		"Disallow: /api\n" +
		"\n" +
		"Sitemap: " + s.domain + "/sitemap.xml\n"
	c.String(http.StatusOK, body)
}
