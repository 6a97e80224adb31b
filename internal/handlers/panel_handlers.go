package handlers

import (
	"net/http"

	"billingpanel/internal/common"
	"billingpanel/internal/middleware"

	"github.com/labstack/echo/v4"
)

// PanelHandlers serves the admin panel bootstrap configuration.
type PanelHandlers struct {
	panelURL string
}

func NewPanelHandlers(panelURL string) *PanelHandlers {
	return &PanelHandlers{panelURL: panelURL}
}

// PanelConfigResponse is the bootstrap payload for the panel frontend.
type PanelConfigResponse struct {
	PanelURL      string `json:"panel_url"`
	PanelSwitcher bool   `json:"panel_switcher"`
}

// GetPanelConfig handles GET /panel/config. The panel switcher is only
// exposed to super admins.
func (h *PanelHandlers) GetPanelConfig(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, PanelConfigResponse{
		PanelURL:      h.panelURL,
		PanelSwitcher: common.HasRole(ctx, middleware.RoleSuperAdmin),
	})
}
