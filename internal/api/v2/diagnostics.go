package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initDiagnosticsRoutes registers the dev overlay feed. The routes exist even
// when diagnostics are disabled so the gate can answer consistently.
func (c *Controller) initDiagnosticsRoutes() {
	c.Group.GET("/diagnostics/images", c.GetDiagnostics)
	c.Group.DELETE("/diagnostics/images", c.ClearDiagnostics)
}

// diagnosticsGate hides the feed unless diagnostics are enabled in config and
// the request carries the overlay's debug=1 query parameter.
func (c *Controller) diagnosticsGate(ctx echo.Context) error {
	if !c.Diagnostics.Enabled() || ctx.QueryParam("debug") != "1" {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return nil
}

// GetDiagnostics returns the recorded resolution attempts and their summary.
func (c *Controller) GetDiagnostics(ctx echo.Context) error {
	if err := c.diagnosticsGate(ctx); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"summary": c.Diagnostics.Summary(),
		"entries": c.Diagnostics.Entries(),
	})
}

// ClearDiagnostics drops all recorded resolution attempts.
func (c *Controller) ClearDiagnostics(ctx echo.Context) error {
	if err := c.diagnosticsGate(ctx); err != nil {
		return err
	}

	c.Diagnostics.Clear()
	return ctx.NoContent(http.StatusNoContent)
}
