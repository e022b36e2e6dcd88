// Package view renders the todo collection and error messages into markup.
// It is the only presentation contract the handlers depend on.
package view

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"verkefnalisti/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for the router.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// List renders the task list page, optionally with an inline form error.
func List(c *gin.Context, status int, todos []models.Todo, inlineError string) {
	hasFinished := false
	for _, t := range todos {
		if t.Finished {
			hasFinished = true
			break
		}
	}
	c.HTML(status, "todo.html", gin.H{
		"PageTitle":   "Verkefnalisti",
		"Todos":       todos,
		"Error":       inlineError,
		"HasFinished": hasFinished,
	})
}

// Error renders a standalone error page.
func Error(c *gin.Context, status int, title, message string) {
	c.HTML(status, "error.html", gin.H{
		"PageTitle": title,
		"Title":     title,
		"Message":   message,
	})
}

// NotFound renders the 404 page.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{"PageTitle": "404"})
}
