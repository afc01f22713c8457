package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/vhi-dashboard/internal/harmonic"
)

// SignalGenerator renders a harmonic series.
type SignalGenerator interface {
	Generate(p harmonic.Params) harmonic.Series
}

// NewHarmonicServer creates the harmonic demo: the HTML page, the signal API,
// and /healthz.
func NewHarmonicServer(addr string, gen SignalGenerator, logger *slog.Logger) *Server {
	s := newServer(addr, logger)
	s.loadTemplate(templates, "harmonic.html")
	s.registerHealth(nil)

	s.engine.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "harmonic.html", gin.H{
			"Defaults": harmonic.Defaults(),
			"Limits":   harmonic.Limits,
		})
	})
	s.engine.GET("/api/defaults", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"params": harmonic.Defaults(),
			"limits": harmonic.Limits,
		})
	})
	s.engine.GET("/api/signal", func(c *gin.Context) {
		p, err := parseParams(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"params": p,
			"series": gen.Generate(p),
		})
	})
	return s
}

// parseParams overlays query parameters on the defaults and validates the
// result against the slider ranges.
func parseParams(c *gin.Context) (harmonic.Params, error) {
	p := harmonic.Defaults()
	fields := []struct {
		name string
		dst  *float64
	}{
		{"amplitude", &p.Amplitude},
		{"frequency", &p.Frequency},
		{"phase", &p.Phase},
		{"noise_mean", &p.NoiseMean},
		{"noise_variance", &p.NoiseVariance},
	}
	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = v
	}
	if raw, ok := c.GetQuery("show_noise"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("invalid show_noise %q", raw)
		}
		p.ShowNoise = v
	}
	return p, p.Validate()
}
