package plot

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleHealth handles health check requests
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	ready := len(c.curves) > 0
	c.Unlock()

	// unhealthy until the first curve arrives
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte("no curves loaded")); err != nil {
			c.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request
func (c *Chart) handleIndex(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	horizon := c.horizon
	c.Unlock()

	// Render the template
	w.Header().Set("Content-Type", "text/html")
	err := c.indexHTML.Execute(w, map[string]any{
		"horizon": horizon,
	})

	if err != nil {
		c.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleScript serves the transpiled chart JavaScript
func (c *Chart) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, c.scriptContent)
}

// handleData handles chart data requests
func (c *Chart) handleData(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c.Lock()
	// Encode response as JSON
	response := map[string]any{
		"horizon": c.horizon,
		"curves":  c.allCurves(),
	}
	c.Unlock()

	if err := json.NewEncoder(w).Encode(response); err != nil {
		c.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleChartPNG serves the rendered comparison figure
func (c *Chart) handleChartPNG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := c.WritePNG(w); err != nil {
		c.log.Error("Chart rendering failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
