package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusfest/eventhub-api/internal/api/handler/v1/response"
	"github.com/campusfest/eventhub-api/internal/api/middleware"
	"github.com/campusfest/eventhub-api/internal/domain"
)

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(errors.New("Invalid " + name))
	}
	return uint(id), nil
}

func getUserFromContext(ctx *gin.Context) (domain.User, *response.Err) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return domain.User{}, &response.Err{
			HTTPStatusCode: http.StatusUnauthorized,
			Message:        "Authentication failed",
		}
	}
	return user, nil
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Message
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "College event registration API is running"})
}
