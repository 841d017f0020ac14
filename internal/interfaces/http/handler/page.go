package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nantech/inventory/internal/interfaces/http/middleware"
)

// PageUser is the signed-in user as seen by a page
type PageUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PageDescriptor tells the client which page it reached and as whom.
// User is nil on the login page.
type PageDescriptor struct {
	Page string    `json:"page"`
	Path string    `json:"path"`
	User *PageUser `json:"user"`
}

// PageHandler answers page routes after the route gate has admitted them
type PageHandler struct {
	BaseHandler
}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Show handles every gated page path
func (h *PageHandler) Show(c *gin.Context) {
	p := middleware.NormalizePath(c.Request.URL.Path)

	desc := PageDescriptor{Page: pageName(p), Path: p}
	if session, ok := middleware.SessionFromContext(c); ok {
		desc.User = &PageUser{
			ID:       session.SubjectID,
			Username: session.Username,
			Role:     session.Role.String(),
		}
	}

	h.Success(c, desc)
}

// pageName turns "/inventory/manage/3" into "inventory.manage.3" and "/" into "home"
func pageName(p string) string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "home"
	}
	return strings.ReplaceAll(trimmed, "/", ".")
}
