package site

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/posts"
)

type fakeRelay struct {
	contacts    int
	newsletters int
	err         error
}

func (f *fakeRelay) SendContact(name, email, message string) error {
	f.contacts++
	return f.err
}

func (f *fakeRelay) SendNewsletter(email string) error {
	f.newsletters++
	return f.err
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Post{})
	return db
}

func setupFixture(t *testing.T, relay *fakeRelay) (*gin.Engine, *posts.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetFuncMap(map[string]interface{}{
		"now": func() time.Time {
			return time.Now()
		},
	})
	router.LoadHTMLGlob("views/*.html")

	store := posts.NewStore(setupTestDB(t))
	NewSiteModule(store, relay, "https://example.com/").RegisterRoutes(router)
	return router, store
}

func formPost(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHome_ShowsRecentPublished(t *testing.T) {
	router, store := setupFixture(t, &fakeRelay{})

	recent := &models.Post{Title: "Fresh Post", Content: "x", Status: models.StatusPublished}
	assert.NoError(t, store.Create(recent))
	draft := &models.Post{Title: "Unfinished", Content: "x", Status: models.StatusDraft}
	assert.NoError(t, store.Create(draft))

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fresh Post")
	assert.NotContains(t, w.Body.String(), "Unfinished")
}

func TestContactForm_Success(t *testing.T) {
	relay := &fakeRelay{}
	router, _ := setupFixture(t, relay)

	w := formPost(router, "/contact", url.Values{
		"name":    {"Alex"},
		"email":   {"alex@example.com"},
		"message": {"Hi there"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, relay.contacts)
	assert.Contains(t, w.Body.String(), "Message sent successfully")
}

func TestContactForm_MissingFields(t *testing.T) {
	relay := &fakeRelay{}
	router, _ := setupFixture(t, relay)

	w := formPost(router, "/contact", url.Values{"name": {"Alex"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, relay.contacts)
}

func TestContactForm_RelayFailure(t *testing.T) {
	relay := &fakeRelay{err: errors.New("relay down")}
	router, _ := setupFixture(t, relay)

	w := formPost(router, "/contact", url.Values{
		"name":    {"Alex"},
		"email":   {"alex@example.com"},
		"message": {"Hi"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNewsletterForm(t *testing.T) {
	relay := &fakeRelay{}
	router, _ := setupFixture(t, relay)

	w := formPost(router, "/newsletter", url.Values{"email": {"alex@example.com"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, relay.newsletters)

	w = formPost(router, "/newsletter", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, relay.newsletters)
}

func TestAPIContact(t *testing.T) {
	relay := &fakeRelay{}
	router, _ := setupFixture(t, relay)

	body := `{"name":"Alex","email":"alex@example.com","message":"Hi"}`
	req, _ := http.NewRequest("POST", "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, relay.contacts)

	req, _ = http.NewRequest("POST", "/api/contact", strings.NewReader(`{"name":"Alex"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, relay.contacts)
}

func TestAPINewsletter(t *testing.T) {
	relay := &fakeRelay{}
	router, _ := setupFixture(t, relay)

	req, _ := http.NewRequest("POST", "/api/newsletter", strings.NewReader(`{"email":"alex@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, relay.newsletters)
}

func TestSitemap(t *testing.T) {
	router, store := setupFixture(t, &fakeRelay{})

	published := &models.Post{Title: "Mapped Post", Content: "x", Status: models.StatusPublished}
	assert.NoError(t, store.Create(published))
	draft := &models.Post{Title: "Unmapped Draft", Content: "x", Status: models.StatusDraft}
	assert.NoError(t, store.Create(draft))

	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.com/blog/mapped-post")
	assert.Contains(t, w.Body.String(), "https://example.com/blog")
	assert.NotContains(t, w.Body.String(), "unmapped-draft")
}

func TestSitemap_ListsEveryPublishedPost(t *testing.T) {
	router, store := setupFixture(t, &fakeRelay{})

	total := posts.MaxLimit + 1
	for i := 0; i < total; i++ {
		post := &models.Post{
			Title:   fmt.Sprintf("Archived Post %d", i),
			Content: "x",
			Status:  models.StatusPublished,
		}
		assert.NoError(t, store.Create(post))
	}

	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, total, strings.Count(w.Body.String(), "/blog/archived-post-"))
}

func TestRobots(t *testing.T) {
	router, _ := setupFixture(t, &fakeRelay{})

	req, _ := http.NewRequest("GET", "/robots.txt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /admin")
	assert.Contains(t, w.Body.String(), "Sitemap: https://example.com/sitemap.xml")
}
