package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

var errNoFaction = errors.New("you are not a member of any faction")

type TerritoryService interface {
	RegisterPoint(ctx context.Context, name, description, actor string) (domain.ContestedPoint, error)
	DeactivatePoint(ctx context.Context, id uint) (bool, error)
	ReactivatePoint(ctx context.Context, id uint) (bool, error)
	UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error)
	ListPoints(ctx context.Context, includeInactive bool) ([]domain.ContestedPoint, error)
	FindPointByName(ctx context.Context, name string) (domain.ContestedPoint, error)
	SubmitCapture(ctx context.Context, factionName, pointName, actor, evidenceURL string) (domain.CaptureEvent, error)
	RemoveCapture(ctx context.Context, id uint, actor string) (bool, error)
	RecentCaptures(ctx context.Context, limit int) ([]domain.CaptureEvent, error)
	StartSession(ctx context.Context, actor string) (domain.SessionState, error)
	StopSession(ctx context.Context, actor string) (domain.SessionState, error)
	SessionStatus(ctx context.Context) (domain.SessionState, error)
	GetStatus(ctx context.Context, recentLimit int) (domain.TerritoryStatus, error)
	GetSummary(ctx context.Context) ([]domain.PointSummary, error)
}

type TerritoryHandler struct {
	svc  TerritoryService
	uSvc UserService
}

func NewTerritoryHandler(svc TerritoryService, uSvc UserService) *TerritoryHandler {
	return &TerritoryHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// territoryErr maps service errors onto HTTP errors.
func territoryErr(op string, err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrPointNameExists):
		return response.ErrConflict(service.ErrPointNameExists)
	case errors.Is(err, service.ErrPointNotFound):
		return response.ErrMissing(service.ErrPointNotFound)
	case errors.Is(err, service.ErrSessionAlreadyActive):
		return response.ErrConflict(service.ErrSessionAlreadyActive)
	case errors.Is(err, service.ErrSessionNotActive):
		return response.ErrConflict(service.ErrSessionNotActive)
	case errors.Is(err, service.ErrPointNotActive):
		return response.ErrConflict(service.ErrPointNotActive)
	case errors.Is(err, service.ErrFactionNotFound):
		return response.ErrMissing(service.ErrFactionNotFound)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}

// HandleListPoints godoc
// @Summary      List basepoints
// @Tags         basepoints
// @Produce      json
// @Param        include_inactive  query     bool  false  "Include deactivated basepoints"
// @Success      200  {array}   domain.ContestedPoint
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /basepoints [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleListPoints(ctx *gin.Context) {
	includeInactive := ctx.Query("include_inactive") == "true"

	points, err := h.svc.ListPoints(ctx.Request.Context(), includeInactive)
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleListPoints -> h.svc.ListPoints", err))
		return
	}

	ctx.JSON(http.StatusOK, points)
}

// HandleGetPointByName godoc
// @Summary      Find a basepoint by its exact name
// @Tags         basepoints
// @Produce      json
// @Param        name  path      string  true  "Basepoint name"
// @Success      200   {object}  domain.ContestedPoint
// @Failure      401   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /basepoints/by-name/{name} [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleGetPointByName(ctx *gin.Context) {
	name := ctx.Param("name")

	point, err := h.svc.FindPointByName(ctx.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrPointNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("basepoint", "name", name))
			return
		}
		response.RenderErr(ctx, territoryErr("v1.HandleGetPointByName -> h.svc.FindPointByName", err))
		return
	}

	ctx.JSON(http.StatusOK, point)
}

// HandleRegisterPoint godoc
// @Summary      Register a basepoint
// @Description  Names are unique across active and deactivated basepoints. Admin only.
// @Tags         basepoints
// @Accept       json
// @Produce      json
// @Param        request  body      request.PointRequest  true  "Basepoint"
// @Success      201      {object}  domain.ContestedPoint
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /basepoints [post]
// @Security BearerAuth
func (h *TerritoryHandler) HandleRegisterPoint(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PointRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	point, err := h.svc.RegisterPoint(ctx.Request.Context(), req.Name, req.Description, admin.Actor())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleRegisterPoint -> h.svc.RegisterPoint", err))
		return
	}

	ctx.JSON(http.StatusCreated, point)
}

// HandleUpdatePoint godoc
// @Summary      Rename or redescribe a basepoint
// @Tags         basepoints
// @Accept       json
// @Produce      json
// @Param        pointID  path      int                   true  "Basepoint ID"
// @Param        request  body      request.PointRequest  true  "New values"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /basepoints/{pointID} [put]
// @Security BearerAuth
func (h *TerritoryHandler) HandleUpdatePoint(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pointID, respErr := parseIDParam(ctx, "pointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PointRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ok, err := h.svc.UpdatePoint(ctx.Request.Context(), pointID, req.Name, req.Description)
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleUpdatePoint -> h.svc.UpdatePoint", err))
		return
	}
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("basepoint", "ID", pointID))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeactivatePoint godoc
// @Summary      Deactivate a basepoint
// @Description  Captures already recorded for the basepoint are kept.
// @Tags         basepoints
// @Param        pointID  path      int  true  "Basepoint ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /basepoints/{pointID} [delete]
// @Security BearerAuth
func (h *TerritoryHandler) HandleDeactivatePoint(ctx *gin.Context) {
	h.togglePoint(ctx, h.svc.DeactivatePoint, "v1.HandleDeactivatePoint -> h.svc.DeactivatePoint")
}

// HandleReactivatePoint godoc
// @Summary      Reactivate a basepoint
// @Tags         basepoints
// @Param        pointID  path      int  true  "Basepoint ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /basepoints/{pointID}/reactivate [post]
// @Security BearerAuth
func (h *TerritoryHandler) HandleReactivatePoint(ctx *gin.Context) {
	h.togglePoint(ctx, h.svc.ReactivatePoint, "v1.HandleReactivatePoint -> h.svc.ReactivatePoint")
}

func (h *TerritoryHandler) togglePoint(ctx *gin.Context, toggle func(context.Context, uint) (bool, error), op string) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pointID, respErr := parseIDParam(ctx, "pointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ok, err := toggle(ctx.Request.Context(), pointID)
	if err != nil {
		response.RenderErr(ctx, territoryErr(op, err))
		return
	}
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("basepoint", "ID", pointID))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSubmitCapture godoc
// @Summary      Submit a capture
// @Description  Rejected unless a session is running and the basepoint is active. Members capture for their own faction; admins may name any faction.
// @Tags         captures
// @Accept       json
// @Produce      json
// @Param        request  body      request.CaptureRequest  true  "Capture"
// @Success      201      {object}  response.CaptureResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /captures [post]
// @Security BearerAuth
func (h *TerritoryHandler) HandleSubmitCapture(ctx *gin.Context) {
	member, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CaptureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	factionName := req.FactionName
	if !member.IsAdmin() {
		if member.Faction == nil {
			response.RenderErr(ctx, response.ErrPermissionDenied(errNoFaction))
			return
		}
		if factionName != "" && factionName != member.Faction.Name {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				fmt.Errorf("you can only capture for %s", member.Faction.Name)))
			return
		}
		factionName = member.Faction.Name
	}
	if factionName == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("faction_name is required")))
		return
	}

	event, err := h.svc.SubmitCapture(ctx.Request.Context(), factionName, req.PointName, member.Actor(), req.EvidenceURL)
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleSubmitCapture -> h.svc.SubmitCapture", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.CaptureResponse{
		Message: fmt.Sprintf("%s captured %s", event.FactionName, event.PointName),
		Capture: event,
	})
}

// HandleRemoveCapture godoc
// @Summary      Remove a capture
// @Description  The capture is kept for audit and excluded from every view.
// @Tags         captures
// @Param        captureID  path      int  true  "Capture ID"
// @Success      204
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /captures/{captureID} [delete]
// @Security BearerAuth
func (h *TerritoryHandler) HandleRemoveCapture(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	captureID, respErr := parseIDParam(ctx, "captureID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ok, err := h.svc.RemoveCapture(ctx.Request.Context(), captureID, admin.Actor())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleRemoveCapture -> h.svc.RemoveCapture", err))
		return
	}
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("active capture", "ID", captureID))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRecentCaptures godoc
// @Summary      Most recent captures
// @Tags         captures
// @Produce      json
// @Param        limit  query     int  false  "Number of captures (default 5)"
// @Success      200    {array}   domain.CaptureEvent
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /captures/recent [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleRecentCaptures(ctx *gin.Context) {
	limit, respErr := parseIntQuery(ctx, "limit", domain.DefaultRecentLimit)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.RecentCaptures(ctx.Request.Context(), limit)
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleRecentCaptures -> h.svc.RecentCaptures", err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetSession godoc
// @Summary      Session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionState
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /session [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleGetSession(ctx *gin.Context) {
	state, err := h.svc.SessionStatus(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleGetSession -> h.svc.SessionStatus", err))
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleStartSession godoc
// @Summary      Start a session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionState
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /session/start [post]
// @Security BearerAuth
func (h *TerritoryHandler) HandleStartSession(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	state, err := h.svc.StartSession(ctx.Request.Context(), admin.Actor())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleStartSession -> h.svc.StartSession", err))
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleStopSession godoc
// @Summary      Stop the running session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionState
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /session/stop [post]
// @Security BearerAuth
func (h *TerritoryHandler) HandleStopSession(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	state, err := h.svc.StopSession(ctx.Request.Context(), admin.Actor())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleStopSession -> h.svc.StopSession", err))
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleGetStatus godoc
// @Summary      Territory status
// @Description  Session state, points held per faction and the latest captures.
// @Tags         territory
// @Produce      json
// @Param        recent  query     int  false  "Number of recent captures (default 5)"
// @Success      200     {object}  domain.TerritoryStatus
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /territory/status [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleGetStatus(ctx *gin.Context) {
	recent, respErr := parseIntQuery(ctx, "recent", domain.DefaultRecentLimit)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, err := h.svc.GetStatus(ctx.Request.Context(), recent)
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleGetStatus -> h.svc.GetStatus", err))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleGetSummary godoc
// @Summary      Per basepoint holder summary
// @Description  Current holder and longest holder over the whole capture history.
// @Tags         territory
// @Produce      json
// @Success      200  {object}  response.SummaryResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /territory/summary [get]
// @Security BearerAuth
func (h *TerritoryHandler) HandleGetSummary(ctx *gin.Context) {
	summary, err := h.svc.GetSummary(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, territoryErr("v1.HandleGetSummary -> h.svc.GetSummary", err))
		return
	}

	ctx.JSON(http.StatusOK, response.SummaryResponse{Points: summary})
}
