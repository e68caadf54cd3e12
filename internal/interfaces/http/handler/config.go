package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/orderbridge/backend/internal/application/integration"
	"github.com/orderbridge/backend/internal/domain/integration"
)

// StoreConfigStore reads and writes per-store import settings
type StoreConfigStore interface {
	Get(ctx context.Context, storeID int64) (*integration.StoreConfig, error)
	Save(ctx context.Context, cfg *integration.StoreConfig) error
	List(ctx context.Context) ([]integration.StoreConfig, error)
}

// ConfigSaveListener is notified after an admin config section was saved
type ConfigSaveListener interface {
	Execute(ctx context.Context, event appintegration.ConfigSaveEvent) (bool, error)
}

// ConfigHandler serves the admin configuration endpoints
type ConfigHandler struct {
	BaseHandler
	configs   StoreConfigStore
	section   string
	listeners []ConfigSaveListener
	logger    *zap.Logger
}

// NewConfigHandler creates a new config handler. section is the config
// section store config writes are reported under.
func NewConfigHandler(configs StoreConfigStore, section string, logger *zap.Logger, listeners ...ConfigSaveListener) *ConfigHandler {
	if section == "" {
		section = appintegration.DefaultConfigSection
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigHandler{
		configs:   configs,
		section:   section,
		listeners: listeners,
		logger:    logger,
	}
}

// ConfigSectionURI identifies a config section in the route
type ConfigSectionURI struct {
	Section string `uri:"section" binding:"required,max=64"`
}

// ConfigSectionSaveQuery scopes a section save to a store
type ConfigSectionSaveQuery struct {
	StoreID int64 `form:"store_id" binding:"gte=0"`
}

// ConfigSaveResponse reports which listeners reacted to a save
type ConfigSaveResponse struct {
	Section string `json:"section" example:"channable_marketplace"`
	StoreID int64  `json:"store_id"`
	// Triggered is true when at least one listener owns the section
	Triggered bool `json:"triggered"`
}

// UpdateStoreConfigRequest changes store import settings; omitted fields keep their value
type UpdateStoreConfigRequest struct {
	Enabled                   *bool   `json:"enabled"`
	PriceIncludesTax          *bool   `json:"price_includes_tax"`
	DeductFPTTax              *bool   `json:"deduct_fpt_tax"`
	DisableStockCheckOnImport *bool   `json:"disable_stock_check_on_import"`
	BackordersEnabled         *bool   `json:"backorders_enabled"`
	LVBDisableStockMovement   *bool   `json:"lvb_disable_stock_movement"`
	DefaultCountry            *string `json:"default_country" binding:"omitempty,iso3166_1_alpha2" example:"NL"`
}

func (r UpdateStoreConfigRequest) applyTo(cfg *integration.StoreConfig) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&cfg.Enabled, r.Enabled)
	setBool(&cfg.PriceIncludesTax, r.PriceIncludesTax)
	setBool(&cfg.DeductFPTTax, r.DeductFPTTax)
	setBool(&cfg.DisableStockCheckOnImport, r.DisableStockCheckOnImport)
	setBool(&cfg.BackordersEnabled, r.BackordersEnabled)
	setBool(&cfg.LVBDisableStockMovement, r.LVBDisableStockMovement)
	if r.DefaultCountry != nil {
		cfg.DefaultCountry = *r.DefaultCountry
	}
}

// SaveSection godoc
// @ID           saveConfigSection
// @Summary      Notify a config section save
// @Description  Runs the maintenance actions registered for the section, such as dropping cached store settings
// @Tags         config
// @Produce      json
// @Param        section path string true "Config section" example(channable_marketplace)
// @Param        store_id query int false "Store scope, 0 for the default scope"
// @Success      200 {object} APIResponse[ConfigSaveResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/config/sections/{section}/save [post]
func (h *ConfigHandler) SaveSection(c *gin.Context) {
	var uri ConfigSectionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindError(c, err)
		return
	}
	var query ConfigSectionSaveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "store_id must be a non-negative integer")
		return
	}

	event := appintegration.ConfigSaveEvent{Section: uri.Section, StoreID: query.StoreID}
	triggered, err := h.dispatch(c.Request.Context(), event)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ConfigSaveResponse{Section: uri.Section, StoreID: query.StoreID, Triggered: triggered})
}

// ListStoreConfigs godoc
// @ID           listStoreConfigs
// @Summary      List store import settings
// @Description  Returns the settings of every store with stored settings
// @Tags         config
// @Produce      json
// @Success      200 {object} APIResponse[[]appintegration.StoreConfigResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stores [get]
func (h *ConfigHandler) ListStoreConfigs(c *gin.Context) {
	configs, err := h.configs.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]appintegration.StoreConfigResponse, len(configs))
	for i := range configs {
		resp[i] = appintegration.ToStoreConfigResponse(&configs[i])
	}
	h.Success(c, resp)
}

// GetStoreConfig godoc
// @ID           getStoreConfig
// @Summary      Get store import settings
// @Description  Returns the settings of a store; stores without stored settings get the defaults
// @Tags         config
// @Produce      json
// @Param        store_id path int true "Store ID"
// @Success      200 {object} APIResponse[appintegration.StoreConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stores/{store_id}/config [get]
func (h *ConfigHandler) GetStoreConfig(c *gin.Context) {
	storeID, ok := h.storeIDParam(c)
	if !ok {
		return
	}

	cfg, err := h.configs.Get(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appintegration.ToStoreConfigResponse(cfg))
}

// UpdateStoreConfig godoc
// @ID           updateStoreConfig
// @Summary      Update store import settings
// @Description  Saves the given settings and notifies the module's config section listeners
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        store_id path int true "Store ID"
// @Param        request body UpdateStoreConfigRequest true "Settings to change"
// @Success      200 {object} APIResponse[appintegration.StoreConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stores/{store_id}/config [put]
func (h *ConfigHandler) UpdateStoreConfig(c *gin.Context) {
	storeID, ok := h.storeIDParam(c)
	if !ok {
		return
	}
	var req UpdateStoreConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.configs.Get(ctx, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	updated := *cfg
	req.applyTo(&updated)
	if err := h.configs.Save(ctx, &updated); err != nil {
		h.HandleError(c, err)
		return
	}

	// The settings are stored at this point; a failing listener only leaves caches stale.
	if _, err := h.dispatch(ctx, appintegration.ConfigSaveEvent{Section: h.section, StoreID: storeID}); err != nil {
		h.logger.Warn("Config save listener failed",
			zap.String("section", h.section),
			zap.Int64("store_id", storeID),
			zap.Error(err))
	}

	h.Success(c, appintegration.ToStoreConfigResponse(&updated))
}

// dispatch hands the event to every listener and reports whether any of them
// acted on it. All listeners run even when one fails.
func (h *ConfigHandler) dispatch(ctx context.Context, event appintegration.ConfigSaveEvent) (bool, error) {
	var (
		triggered bool
		errs      []error
	)
	for _, l := range h.listeners {
		ran, err := l.Execute(ctx, event)
		triggered = triggered || ran
		if err != nil {
			errs = append(errs, err)
		}
	}
	return triggered, errors.Join(errs...)
}

func (h *ConfigHandler) storeIDParam(c *gin.Context) (int64, bool) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil || storeID < 0 {
		h.BadRequest(c, "Invalid store ID")
		return 0, false
	}
	return storeID, true
}
