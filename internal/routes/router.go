package routes

import (
	"github.com/gin-gonic/gin"

	"verkefnalisti/internal/controller"
	"verkefnalisti/internal/middleware"
	"verkefnalisti/internal/view"
)

const staticDir = "./web/static"

// Router assembles the HTTP surface over the given handler set.
func Router(todos *controller.Todos) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())
	router.SetHTMLTemplate(view.Templates())

	router.Static("/static", staticDir)

	router.GET("/", todos.ListPage)
	router.POST("/add", todos.Add)
	router.POST("/update/:id", todos.Update)
	router.POST("/delete/finished", todos.DeleteFinished)
	router.POST("/delete/:id", todos.Delete)

	router.NoRoute(func(c *gin.Context) {
		view.NotFound(c)
	})

	return router
}
