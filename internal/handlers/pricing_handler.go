package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/services"
)

type PricingHandler struct {
	settingsService services.SettingsService
	log             *zap.Logger
}

func NewPricingHandler(settingsService services.SettingsService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{settingsService: settingsService, log: log}
}

// Options lists the active tiers and add-ons a clerk can pick from.
func (h *PricingHandler) Options(c *gin.Context) {
	opts, err := h.settingsService.Options(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, opts)
}

func (h *PricingHandler) ListTiers(c *gin.Context) {
	tiers, err := h.settingsService.ListTiers(c.Request.Context(), false)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, tiers)
}

func (h *PricingHandler) CreateTier(c *gin.Context) {
	var in services.TierInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	tier, err := h.settingsService.CreateTier(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, tier)
}

func (h *PricingHandler) UpdateTier(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.TierInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	tier, err := h.settingsService.UpdateTier(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, tier)
}

func (h *PricingHandler) DeleteTier(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.settingsService.DeleteTier(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"id": id})
}

func (h *PricingHandler) ListAddOns(c *gin.Context) {
	addOns, err := h.settingsService.ListAddOns(c.Request.Context(), false)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, addOns)
}

func (h *PricingHandler) CreateAddOn(c *gin.Context) {
	var in services.AddOnInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	addOn, err := h.settingsService.CreateAddOn(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	created(c, addOn)
}

func (h *PricingHandler) UpdateAddOn(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	var in services.AddOnInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.log, err)
		return
	}
	addOn, err := h.settingsService.UpdateAddOn(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, addOn)
}

func (h *PricingHandler) DeleteAddOn(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if err := h.settingsService.DeleteAddOn(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, gin.H{"id": id})
}
