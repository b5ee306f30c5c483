package catalog

import "github.com/gin-gonic/gin"

func SetupCatalogRoutes(router *gin.RouterGroup, controller Controller) {
	movies := router.Group("/movies")
	{
		movies.GET("", controller.ListMovies)   // GET /api/v1/movies
		movies.GET("/:id", controller.GetMovie) // GET /api/v1/movies/:id
	}

	router.GET("/screens", controller.ListScreens) // GET /api/v1/screens
}
