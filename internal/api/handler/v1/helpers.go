package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/basepoint-api/internal/api/middleware"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetMember(ctx context.Context, id uint) (domain.Member, error)
}

var errAdminOnly = errors.New("only admins can perform this action")

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}

func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.Member, *response.Err) {
	value, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.Member{}, response.ErrUnauthorized(errors.New("missing authenticated user"))
	}
	userID, ok := value.(uint)
	if !ok {
		return domain.Member{}, response.ErrUnauthorized(errors.New("invalid authenticated user"))
	}

	member, err := uSvc.GetMember(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.Member{}, response.ErrUnauthorized(err)
		}
		return domain.Member{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetMember -> %w", err))
	}

	return member, nil
}

func getAdminFromContext(ctx *gin.Context, uSvc UserService) (domain.Member, *response.Err) {
	member, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		return domain.Member{}, respErr
	}
	if !member.IsAdmin() {
		return domain.Member{}, response.ErrPermissionDenied(errAdminOnly)
	}

	return member, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

func parseIntQuery(ctx *gin.Context, name string, fallback int) (int, *response.Err) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, raw))
	}

	return n, nil
}
