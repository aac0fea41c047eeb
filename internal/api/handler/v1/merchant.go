package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/service"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/world"
)

var (
	errNoIdentity   = errors.New("request is not authenticated as an actor")
	errActorOffline = errors.New("actor has no open session")
)

type MerchantService interface {
	Spawn(ctx context.Context, params service.SpawnParams) (service.MerchantInfo, error)
	Get(ctx context.Context, id string) (service.MerchantInfo, error)
	Examine(ctx context.Context, id string, actor merchant.Actor) ([]string, error)
	Interact(ctx context.Context, id string, actor merchant.Actor) error
	Whisper(ctx context.Context, id string, source merchant.Speaker, phrase string) (bool, error)
	Appraise(ctx context.Context, id string, item *domain.TradeItem) (int64, error)
	Sell(ctx context.Context, id string, actor merchant.Actor, item *domain.TradeItem) (service.SaleResult, error)
	Buy(ctx context.Context, id string, actor merchant.Actor, slot, quantity int) (service.PurchaseResult, error)
	Save(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ActorDirectory finds connected actors by name.
type ActorDirectory interface {
	Actor(name string) (merchant.Actor, bool)
}

type MerchantHandler struct {
	svc    MerchantService
	actors ActorDirectory
}

func NewMerchantHandler(svc MerchantService, actors ActorDirectory) *MerchantHandler {
	return &MerchantHandler{
		svc:    svc,
		actors: actors,
	}
}

func (h *MerchantHandler) actorFromContext(ctx *gin.Context) (merchant.Actor, *response.Err) {
	id, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		return nil, response.ErrUnauthorized(errNoIdentity)
	}

	actor, ok := h.actors.Actor(id.ActorName)
	if !ok {
		return nil, response.ErrConflict(errActorOffline)
	}

	return actor, nil
}

func renderServiceErr(ctx *gin.Context, op string, err error) {
	merchantID := ctx.Param("merchantID")

	switch {
	case errors.Is(err, service.ErrMerchantNotFound):
		response.RenderErr(ctx, response.ErrNotFound("merchant", "merchantID", merchantID))
	case errors.Is(err, service.ErrUnknownVariant),
		errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrInvalidQuantity):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrNoCatalog):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrSaleRefused),
		errors.Is(err, service.ErrPurchaseRefused),
		errors.Is(err, service.ErrInteractionRefused),
		errors.Is(err, merchant.ErrWorldEntryRefused),
		errors.Is(err, merchant.ErrCurrencyUnbound):
		response.RenderErr(ctx, response.ErrUnprocessable(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}

func toMerchantResponse(info service.MerchantInfo) response.Merchant {
	return response.Merchant{
		ID:         info.ID,
		Name:       info.State.Name,
		GuildName:  info.State.GuildName,
		Variant:    info.Variant,
		Window:     info.Window.String(),
		Position:   response.NewPosition(info.State.Position),
		Heading:    info.State.Heading,
		Realm:      info.State.Realm,
		Level:      info.State.Level,
		CatalogKey: info.CatalogKey,
		CatalogLen: info.CatalogLen,
		Currency:   info.Currency,
	}
}

// HandleSpawnMerchant godoc
// @Summary      Spawn a merchant
// @Description  Creates a merchant of the given variant, places it in the world and persists it.
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        request  body      request.SpawnMerchantRequest  true  "request body"
// @Success      201      {object}  response.Merchant
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /merchants [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleSpawnMerchant(ctx *gin.Context) {
	var req request.SpawnMerchantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = world.GenderNeutral
	}

	info, err := h.svc.Spawn(ctx.Request.Context(), service.SpawnParams{
		Variant:             req.Variant,
		Name:                req.Name,
		GuildName:           req.GuildName,
		Position:            domain.Position{Region: req.Region, X: req.X, Y: req.Y, Z: req.Z},
		Heading:             req.Heading,
		Speed:               req.Speed,
		Realm:               req.Realm,
		Model:               req.Model,
		Size:                req.Size,
		Level:               req.Level,
		Flags:               req.Flags,
		Gender:              gender,
		AggroLevel:          req.AggroLevel,
		AggroRange:          req.AggroRange,
		EquipmentTemplateID: req.EquipmentTemplateID,
		CatalogKey:          req.CatalogKey,
	})
	if err != nil {
		renderServiceErr(ctx, "HandleSpawnMerchant -> h.svc.Spawn", err)
		return
	}

	ctx.JSON(http.StatusCreated, toMerchantResponse(info))
}

// HandleGetMerchant godoc
// @Summary      Get a merchant
// @Tags         merchants
// @Produce      json
// @Param        merchantID  path      string  true  "Merchant ID"
// @Success      200         {object}  response.Merchant
// @Failure      404         {object}  response.Err
// @Router       /merchants/{merchantID} [get]
// @Security     BearerAuth
func (h *MerchantHandler) HandleGetMerchant(ctx *gin.Context) {
	info, err := h.svc.Get(ctx.Request.Context(), ctx.Param("merchantID"))
	if err != nil {
		renderServiceErr(ctx, "HandleGetMerchant -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, toMerchantResponse(info))
}

// HandleExamine godoc
// @Summary      Examine a merchant
// @Description  Returns the lines the merchant shows to the calling actor.
// @Tags         merchants
// @Produce      json
// @Param        merchantID  path      string  true  "Merchant ID"
// @Success      200         {object}  response.Examine
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /merchants/{merchantID}/examine [get]
// @Security     BearerAuth
func (h *MerchantHandler) HandleExamine(ctx *gin.Context) {
	actor, respErr := h.actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	lines, err := h.svc.Examine(ctx.Request.Context(), ctx.Param("merchantID"), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleExamine -> h.svc.Examine", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Examine{Lines: lines})
}

// HandleInteract godoc
// @Summary      Interact with a merchant
// @Description  Opens the merchant's trade window. The window is pushed on the actor session.
// @Tags         merchants
// @Produce      json
// @Param        merchantID  path      string  true  "Merchant ID"
// @Success      202         {object}  response.Interact
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      422         {object}  response.Err
// @Router       /merchants/{merchantID}/interact [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleInteract(ctx *gin.Context) {
	actor, respErr := h.actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	merchantID := ctx.Param("merchantID")
	if err := h.svc.Interact(ctx.Request.Context(), merchantID, actor); err != nil {
		renderServiceErr(ctx, "HandleInteract -> h.svc.Interact", err)
		return
	}

	info, err := h.svc.Get(ctx.Request.Context(), merchantID)
	if err != nil {
		renderServiceErr(ctx, "HandleInteract -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusAccepted, response.Interact{Window: info.Window.String()})
}

// HandleWhisper godoc
// @Summary      Whisper to a merchant
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        merchantID  path      string                   true  "Merchant ID"
// @Param        request     body      request.WhisperRequest  true  "request body"
// @Success      200         {object}  response.Whisper
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /merchants/{merchantID}/whisper [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleWhisper(ctx *gin.Context) {
	actor, respErr := h.actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.WhisperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	accepted, err := h.svc.Whisper(ctx.Request.Context(), ctx.Param("merchantID"), actor, req.Phrase)
	if err != nil {
		renderServiceErr(ctx, "HandleWhisper -> h.svc.Whisper", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Whisper{Accepted: accepted})
}

// HandleAppraise godoc
// @Summary      Appraise an item
// @Description  Returns what the merchant would pay for the item.
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        merchantID  path      string                     true  "Merchant ID"
// @Param        request     body      request.TradeItemRequest  true  "request body"
// @Success      200         {object}  response.Appraisal
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Router       /merchants/{merchantID}/appraise [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleAppraise(ctx *gin.Context) {
	var req request.TradeItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := h.svc.Appraise(ctx.Request.Context(), ctx.Param("merchantID"), req.TradeItem())
	if err != nil {
		renderServiceErr(ctx, "HandleAppraise -> h.svc.Appraise", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Appraisal{Price: price})
}

// HandleSell godoc
// @Summary      Sell an item to a merchant
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        merchantID  path      string                     true  "Merchant ID"
// @Param        request     body      request.SellRequest  true  "request body"
// @Success      200         {object}  response.Trade
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      422         {object}  response.Err
// @Router       /merchants/{merchantID}/sell [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleSell(ctx *gin.Context) {
	actor, respErr := h.actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SellRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Sell(ctx.Request.Context(), ctx.Param("merchantID"), actor, req.TradeItem())
	if err != nil {
		renderServiceErr(ctx, "HandleSell -> h.svc.Sell", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Trade{
		EventID:    result.Event.ID,
		Kind:       string(result.Event.Kind),
		TemplateID: result.Event.TemplateID,
		Quantity:   result.Event.Quantity,
		Price:      result.Price,
		At:         result.Event.At,
	})
}

// HandleBuy godoc
// @Summary      Buy from a merchant
// @Description  Buys quantity items from a catalog slot (page * 30 + position).
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        merchantID  path      string              true  "Merchant ID"
// @Param        request     body      request.BuyRequest  true  "request body"
// @Success      200         {object}  response.Trade
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      422         {object}  response.Err
// @Router       /merchants/{merchantID}/buy [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleBuy(ctx *gin.Context) {
	actor, respErr := h.actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.BuyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Buy(ctx.Request.Context(), ctx.Param("merchantID"), actor, req.Slot, req.Quantity)
	if err != nil {
		renderServiceErr(ctx, "HandleBuy -> h.svc.Buy", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Trade{
		EventID:    result.Event.ID,
		Kind:       string(result.Event.Kind),
		TemplateID: result.Item.ID,
		Quantity:   result.Event.Quantity,
		Price:      result.Price,
		Currency:   result.Event.Currency,
		At:         result.Event.At,
	})
}

// HandleSaveMerchant godoc
// @Summary      Save a merchant
// @Tags         merchants
// @Produce      json
// @Param        merchantID  path      string  true  "Merchant ID"
// @Success      200         {object}  response.Message
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /merchants/{merchantID}/save [post]
// @Security     BearerAuth
func (h *MerchantHandler) HandleSaveMerchant(ctx *gin.Context) {
	if err := h.svc.Save(ctx.Request.Context(), ctx.Param("merchantID")); err != nil {
		renderServiceErr(ctx, "HandleSaveMerchant -> h.svc.Save", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "merchant saved"})
}

// HandleDeleteMerchant godoc
// @Summary      Delete a merchant
// @Description  Removes the merchant's record and takes it out of the world.
// @Tags         merchants
// @Produce      json
// @Param        merchantID  path      string  true  "Merchant ID"
// @Success      200         {object}  response.Message
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /merchants/{merchantID} [delete]
// @Security     BearerAuth
func (h *MerchantHandler) HandleDeleteMerchant(ctx *gin.Context) {
	if err := h.svc.Delete(ctx.Request.Context(), ctx.Param("merchantID")); err != nil {
		renderServiceErr(ctx, "HandleDeleteMerchant -> h.svc.Delete", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "merchant deleted"})
}
