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

type FactionService interface {
	CreateFaction(ctx context.Context, name, description string) (domain.Faction, error)
	ListFactions(ctx context.Context) ([]domain.Faction, error)
	FindFactionByName(ctx context.Context, name string) (domain.Faction, error)
	FindFactionByID(ctx context.Context, id uint) (domain.Faction, error)
	CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error)
	ListTransactions(ctx context.Context, factionID uint, limit int) ([]domain.TreasuryTransaction, error)
	AssignMember(ctx context.Context, factionID, userID uint) error
	ListMembers(ctx context.Context, factionID uint) ([]domain.User, error)
}

type FactionHandler struct {
	svc  FactionService
	uSvc UserService
}

func NewFactionHandler(svc FactionService, uSvc UserService) *FactionHandler {
	return &FactionHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListFactions godoc
// @Summary      List factions with their balances
// @Tags         factions
// @Produce      json
// @Success      200  {array}   domain.Faction
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /factions [get]
// @Security BearerAuth
func (h *FactionHandler) HandleListFactions(ctx *gin.Context) {
	factions, err := h.svc.ListFactions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListFactions -> h.svc.ListFactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, factions)
}

// HandleCreateFaction godoc
// @Summary      Create a faction
// @Description  New factions start with an empty treasury. Admin only.
// @Tags         factions
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateFactionRequest  true  "Faction"
// @Success      201      {object}  domain.Faction
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /factions [post]
// @Security BearerAuth
func (h *FactionHandler) HandleCreateFaction(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateFactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	faction, err := h.svc.CreateFaction(ctx.Request.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrFactionNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrFactionNameExists))
			return
		}
		err = fmt.Errorf("v1.HandleCreateFaction -> h.svc.CreateFaction -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, faction)
}

// HandleGetFactionByName godoc
// @Summary      Find a faction by name
// @Tags         factions
// @Produce      json
// @Param        name  path      string  true  "Faction name"
// @Success      200   {object}  domain.Faction
// @Failure      401   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /factions/by-name/{name} [get]
// @Security BearerAuth
func (h *FactionHandler) HandleGetFactionByName(ctx *gin.Context) {
	name := ctx.Param("name")

	faction, err := h.svc.FindFactionByName(ctx.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrFactionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("faction", "name", name))
			return
		}
		err = fmt.Errorf("v1.HandleGetFactionByName -> h.svc.FindFactionByName -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, faction)
}

// HandleGetFaction godoc
// @Summary      Get a faction
// @Tags         factions
// @Produce      json
// @Param        factionID  path      int  true  "Faction ID"
// @Success      200        {object}  domain.Faction
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /factions/{factionID} [get]
// @Security BearerAuth
func (h *FactionHandler) HandleGetFaction(ctx *gin.Context) {
	factionID, respErr := parseIDParam(ctx, "factionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	faction, err := h.svc.FindFactionByID(ctx.Request.Context(), factionID)
	if err != nil {
		if errors.Is(err, service.ErrFactionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("faction", "ID", factionID))
			return
		}
		err = fmt.Errorf("v1.HandleGetFaction -> h.svc.FindFactionByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, faction)
}

// HandleAdjustTreasury godoc
// @Summary      Credit or debit a faction treasury
// @Description  Debits never take the balance below zero. Admin only.
// @Tags         factions
// @Accept       json
// @Produce      json
// @Param        factionID  path      int                      true  "Faction ID"
// @Param        request    body      request.TreasuryRequest  true  "Adjustment"
// @Success      200        {object}  response.TreasuryResponse
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /factions/{factionID}/treasury [post]
// @Security BearerAuth
func (h *FactionHandler) HandleAdjustTreasury(ctx *gin.Context) {
	admin, respErr := getAdminFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	factionID, respErr := parseIDParam(ctx, "factionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.TreasuryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	balance, err := h.svc.CreditOrDebit(ctx.Request.Context(), factionID, req.Amount, req.IsCredit, req.Memo, admin.Actor())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFactionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("faction", "ID", factionID))
		case errors.Is(err, service.ErrInsufficientBalance):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientBalance))
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		default:
			err = fmt.Errorf("v1.HandleAdjustTreasury -> h.svc.CreditOrDebit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.TreasuryResponse{
		FactionID: factionID,
		Balance:   balance,
	})
}

// HandleListTransactions godoc
// @Summary      Treasury history of a faction
// @Tags         factions
// @Produce      json
// @Param        factionID  path      int  true   "Faction ID"
// @Param        limit      query     int  false  "Number of transactions (default 20)"
// @Success      200        {array}   domain.TreasuryTransaction
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /factions/{factionID}/treasury [get]
// @Security BearerAuth
func (h *FactionHandler) HandleListTransactions(ctx *gin.Context) {
	factionID, respErr := parseIDParam(ctx, "factionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	limit, respErr := parseIntQuery(ctx, "limit", service.DefaultTransactionLimit)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	transactions, err := h.svc.ListTransactions(ctx.Request.Context(), factionID, limit)
	if err != nil {
		if errors.Is(err, service.ErrFactionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("faction", "ID", factionID))
			return
		}
		err = fmt.Errorf("v1.HandleListTransactions -> h.svc.ListTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, transactions)
}

// HandleAssignMember godoc
// @Summary      Move a user into a faction
// @Tags         factions
// @Accept       json
// @Param        factionID  path      int                          true  "Faction ID"
// @Param        request    body      request.AssignMemberRequest  true  "Member"
// @Success      204
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /factions/{factionID}/members [post]
// @Security BearerAuth
func (h *FactionHandler) HandleAssignMember(ctx *gin.Context) {
	if _, respErr := getAdminFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	factionID, respErr := parseIDParam(ctx, "factionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AssignMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.AssignMember(ctx.Request.Context(), factionID, req.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrFactionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("faction", "ID", factionID))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.UserID))
		default:
			err = fmt.Errorf("v1.HandleAssignMember -> h.svc.AssignMember -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMembers godoc
// @Summary      Members of a faction
// @Tags         factions
// @Produce      json
// @Param        factionID  path      int  true  "Faction ID"
// @Success      200        {array}   domain.User
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /factions/{factionID}/members [get]
// @Security BearerAuth
func (h *FactionHandler) HandleListMembers(ctx *gin.Context) {
	factionID, respErr := parseIDParam(ctx, "factionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	members, err := h.svc.ListMembers(ctx.Request.Context(), factionID)
	if err != nil {
		if errors.Is(err, service.ErrFactionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("faction", "ID", factionID))
			return
		}
		err = fmt.Errorf("v1.HandleListMembers -> h.svc.ListMembers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, members)
}
