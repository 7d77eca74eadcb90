package admin

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/auth"
	"inkwell/models"
	"inkwell/posts"
)

// ImageUploader is what the upload endpoint needs from the image host.
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

type AdminModule struct {
	db           *gorm.DB
	store        *posts.Store
	tokens       *auth.TokenService
	uploader     ImageUploader
	cookieSecure bool
}

func NewAdminModule(db *gorm.DB, store *posts.Store, tokens *auth.TokenService, uploader ImageUploader, cookieSecure bool) *AdminModule {
	return &AdminModule{
		db:           db,
		store:        store,
		tokens:       tokens,
		uploader:     uploader,
		cookieSecure: cookieSecure,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/admin/login", a.loginPage)
	router.POST("/admin/login", a.loginPost)
	router.GET("/admin/logout", a.logout)

	pages := router.Group("/admin")
	pages.Use(auth.RequirePage(a.tokens, a.cookieSecure))
	{
		pages.GET("", a.dashboard)
		pages.GET("/posts", a.listPosts)
		pages.GET("/posts/new", a.newPost)
		pages.GET("/posts/:id", a.editPost)
	}

	api := router.Group("/api")
	{
		api.POST("/auth/login", a.apiLogin)
		api.POST("/auth/logout", a.apiLogout)
		api.GET("/auth/me", auth.RequireAuth(a.tokens), a.me)

		protected := api.Group("", auth.RequireAuth(a.tokens))
		{
			protected.POST("/posts", a.createPost)
			protected.PUT("/posts/:slug", a.updatePost)
			protected.DELETE("/posts/:slug", a.deletePost)
			protected.GET("/posts/by-id/:id", a.getPostByID)
			protected.POST("/upload", a.uploadImage)
		}
	}
}

// authenticate resolves credentials to a user. Wrong email and wrong
// password are indistinguishable to the caller.
func (a *AdminModule) authenticate(email, password string) (*models.User, bool) {
	var user models.User
	if err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return &user, true
}

func (a *AdminModule) issueSession(c *gin.Context, user *models.User) error {
	token, err := a.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return err
	}
	auth.SetCookie(c, a.tokens, token, a.cookieSecure)
	return nil
}

func (a *AdminModule) loginPage(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil {
		if _, err := a.tokens.Verify(token); err == nil {
			c.Redirect(http.StatusFound, "/admin")
			return
		}
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, ok := a.authenticate(email, password)
	if !ok {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Invalid credentials",
			"email": email,
		})
		return
	}

	if err := a.issueSession(c, user); err != nil {
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"error": "Failed to start session",
			"email": email,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (a *AdminModule) logout(c *gin.Context) {
	auth.ClearCookie(c, a.cookieSecure)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (a *AdminModule) apiLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, ok := a.authenticate(req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := a.issueSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"email": user.Email},
	})
}

func (a *AdminModule) apiLogout(c *gin.Context) {
	auth.ClearCookie(c, a.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    c.GetUint("user_id"),
			"email": c.GetString("user_email"),
		},
	})
}

func (a *AdminModule) createPost(c *gin.Context) {
	var req struct {
		Title      string   `json:"title"`
		Content    *string  `json:"content"`
		Excerpt    string   `json:"excerpt"`
		CoverImage string   `json:"coverImage"`
		Category   string   `json:"category"`
		Tags       []string `json:"tags"`
		Status     string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	post := models.Post{
		Title:      strings.TrimSpace(req.Title),
		Content:    *req.Content,
		Excerpt:    strings.TrimSpace(req.Excerpt),
		CoverImage: strings.TrimSpace(req.CoverImage),
		Category:   strings.TrimSpace(req.Category),
		Tags:       normalizeTags(req.Tags),
		Status:     normalizeStatus(req.Status),
	}

	if err := a.store.Create(&post); err != nil {
		log.Printf("create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *AdminModule) updatePost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := a.store.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("update post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	// pointer fields so absent keys leave the stored value untouched
	var req struct {
		Title      *string   `json:"title"`
		Content    *string   `json:"content"`
		Excerpt    *string   `json:"excerpt"`
		CoverImage *string   `json:"coverImage"`
		Category   *string   `json:"category"`
		Tags       *[]string `json:"tags"`
		Status     *string   `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	originalTitle := post.Title
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.CoverImage != nil {
		post.CoverImage = strings.TrimSpace(*req.CoverImage)
	}
	if req.Category != nil {
		post.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(*req.Tags)
	}
	if req.Status != nil {
		post.Status = normalizeStatus(*req.Status)
	}

	titleChanged := req.Title != nil && post.Title != originalTitle

	if err := a.store.Update(post, titleChanged); err != nil {
		log.Printf("update post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *AdminModule) deletePost(c *gin.Context) {
	slug := c.Param("slug")

	if err := a.store.Delete(slug); err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("delete post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) getPostByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID required"})
		return
	}

	post, err := a.store.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("get post by id: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *AdminModule) uploadImage(c *gin.Context) {
	if a.uploader == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image uploads are not configured"})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Missing or invalid "image" file`})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Missing or invalid "image" file`})
		return
	}
	defer file.Close()

	url, err := a.uploader.Upload(c.Request.Context(), file)
	if err != nil {
		log.Printf("upload image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (a *AdminModule) dashboard(c *gin.Context) {
	total, err := a.store.Count("all")
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{"error": "Failed to load dashboard"})
		return
	}
	published, err := a.store.Count(models.StatusPublished)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"email":     c.GetString("user_email"),
		"total":     total,
		"published": published,
		"drafts":    total - published,
	})
}

func (a *AdminModule) listPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	list, total, err := a.store.List(posts.ListFilter{
		Status: "all",
		Page:   page,
		Limit:  50,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{"error": "Failed to load posts"})
		return
	}

	c.HTML(http.StatusOK, "admin_posts.html", gin.H{
		"posts": list,
		"total": total,
	})
}

func (a *AdminModule) newPost(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_edit_post.html", gin.H{})
}

func (a *AdminModule) editPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{"error": "Post not found"})
		return
	}

	post, err := a.store.GetByID(uint(id))
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{"error": "Post not found"})
		return
	}

	c.HTML(http.StatusOK, "admin_edit_post.html", gin.H{"post": post})
}

func normalizeStatus(status string) string {
	if status == models.StatusPublished {
		return models.StatusPublished
	}
	return models.StatusDraft
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
