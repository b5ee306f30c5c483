package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"branchdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	ListMovies(c *gin.Context)
	GetMovie(c *gin.Context)
	ListScreens(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListMovies(c *gin.Context) {
	response.Success(c, http.StatusOK, "Movies retrieved successfully", ctrl.service.ListMovies())
}

func (ctrl *controller) GetMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid movie ID", err.Error())
		return
	}

	movie, err := ctrl.service.GetMovie(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrMovieNotFound) {
			statusCode = http.StatusNotFound
		}
		response.Error(c, statusCode, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Movie retrieved successfully", movie)
}

func (ctrl *controller) ListScreens(c *gin.Context) {
	response.Success(c, http.StatusOK, "Screens retrieved successfully", ctrl.service.ListScreens())
}
