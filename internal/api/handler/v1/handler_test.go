package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMerchantService struct {
	info      service.MerchantInfo
	err       error
	spawned   service.SpawnParams
	lastActor merchant.Actor
	lastItem  *domain.TradeItem
	lastSlot  int
	lastQty   int
	accepted  bool
	price     int64
	catalog   *domain.TradeCatalog
}

func (f *fakeMerchantService) Spawn(_ context.Context, params service.SpawnParams) (service.MerchantInfo, error) {
	f.spawned = params
	return f.info, f.err
}

func (f *fakeMerchantService) Get(_ context.Context, _ string) (service.MerchantInfo, error) {
	return f.info, f.err
}

func (f *fakeMerchantService) Examine(_ context.Context, _ string, actor merchant.Actor) ([]string, error) {
	f.lastActor = actor
	return []string{"You examine Elvar."}, f.err
}

func (f *fakeMerchantService) Interact(_ context.Context, _ string, actor merchant.Actor) error {
	f.lastActor = actor
	return f.err
}

func (f *fakeMerchantService) Whisper(_ context.Context, _ string, _ merchant.Speaker, _ string) (bool, error) {
	return f.accepted, f.err
}

func (f *fakeMerchantService) Appraise(_ context.Context, _ string, item *domain.TradeItem) (int64, error) {
	f.lastItem = item
	return f.price, f.err
}

func (f *fakeMerchantService) Sell(_ context.Context, id string, actor merchant.Actor, item *domain.TradeItem) (service.SaleResult, error) {
	f.lastActor = actor
	f.lastItem = item
	event := events.NewTradeEvent(events.TradeSell, id, actor.Name(), item.TemplateID, item.Count, f.price)
	return service.SaleResult{Price: f.price, Event: event}, f.err
}

func (f *fakeMerchantService) Buy(_ context.Context, id string, actor merchant.Actor, slot, quantity int) (service.PurchaseResult, error) {
	f.lastSlot = slot
	f.lastQty = quantity
	event := events.NewTradeEvent(events.TradeBuy, id, actor.Name(), "sword", quantity, f.price)
	return service.PurchaseResult{Item: domain.ItemTemplate{ID: "sword"}, Price: f.price, Event: event}, f.err
}

func (f *fakeMerchantService) Save(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeMerchantService) Delete(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeMerchantService) Catalog(_ context.Context, _ string) (*domain.TradeCatalog, error) {
	return f.catalog, f.err
}

type fakeDirectory map[string]merchant.Actor

func (d fakeDirectory) Actor(name string) (merchant.Actor, bool) {
	a, ok := d[name]
	return a, ok
}

func newTestRouter(svc *fakeMerchantService, actors ActorDirectory, identity *middleware.Identity) *gin.Engine {
	r := gin.New()
	if identity != nil {
		r.Use(func(ctx *gin.Context) {
			middleware.SetIdentity(ctx, *identity)
			ctx.Next()
		})
	}

	h := NewMerchantHandler(svc, actors)
	c := NewCatalogHandler(svc)

	r.POST("/merchants", h.HandleSpawnMerchant)
	r.GET("/merchants/:merchantID", h.HandleGetMerchant)
	r.DELETE("/merchants/:merchantID", h.HandleDeleteMerchant)
	r.GET("/merchants/:merchantID/examine", h.HandleExamine)
	r.POST("/merchants/:merchantID/interact", h.HandleInteract)
	r.POST("/merchants/:merchantID/whisper", h.HandleWhisper)
	r.POST("/merchants/:merchantID/appraise", h.HandleAppraise)
	r.POST("/merchants/:merchantID/sell", h.HandleSell)
	r.POST("/merchants/:merchantID/buy", h.HandleBuy)
	r.POST("/merchants/:merchantID/save", h.HandleSaveMerchant)
	r.GET("/catalogs/:catalogKey", c.HandleGetCatalog)
	r.GET("/", HandleHealthcheck)

	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
