package http

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/observability"
	"github.com/couchcryptid/vhi-dashboard/internal/store"
)

//go:embed templates
var templates embed.FS

// Form defaults shown on first page load.
const (
	defaultIndicator = domain.VCI
	defaultRegion    = 1
	defaultYears     = "1982-2024"
	defaultWeeks     = "1-52"
)

// Querier answers dashboard queries against the current dataset.
type Querier interface {
	Table(q domain.TableQuery) ([]domain.Row, error)
	Plot(q domain.PlotQuery) ([]domain.Row, error)
	CheckReadiness(ctx context.Context) error
}

type dashboard struct {
	querier Querier
	metrics *observability.Metrics
}

// NewDashboardServer creates the VHI dashboard: the HTML page, the query API,
// and /healthz, /readyz, /metrics.
func NewDashboardServer(addr string, q Querier, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := newServer(addr, logger)
	s.loadTemplate(templates, "dashboard.html")
	s.registerHealth(q)

	d := &dashboard{querier: q, metrics: metrics}
	s.engine.GET("/", d.handleIndex)

	api := s.engine.Group("/api")
	{
		api.GET("/table", d.handleTable)
		api.GET("/plot", d.handlePlot)
		api.GET("/regions", handleRegions)
		api.GET("/indicators", handleIndicators)
	}
	return s
}

func (d *dashboard) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Regions":    domain.Regions(),
		"Indicators": domain.Indicators,
		"Indicator":  defaultIndicator,
		"Region":     defaultRegion,
		"Years":      defaultYears,
		"Weeks":      defaultWeeks,
	})
}

func (d *dashboard) handleTable(c *gin.Context) {
	ind, region, years, err := parseCommon(c)
	if err != nil {
		d.invalid(c, "table", err)
		return
	}
	weeks, err := domain.ParseRange(c.DefaultQuery("weeks", defaultWeeks))
	if err != nil {
		d.invalid(c, "table", err)
		return
	}

	rows, err := d.querier.Table(domain.TableQuery{Region: region, Years: years, Weeks: weeks, Indicator: ind})
	if err != nil {
		unavailable(c, err)
		return
	}

	name, _ := domain.RegionName(region)
	c.JSON(http.StatusOK, gin.H{
		"region":      region,
		"region_name": name,
		"indicator":   ind,
		"years":       years.String(),
		"weeks":       weeks.String(),
		"count":       len(rows),
		"rows":        rows,
	})
}

func (d *dashboard) handlePlot(c *gin.Context) {
	ind, region, years, err := parseCommon(c)
	if err != nil {
		d.invalid(c, "plot", err)
		return
	}

	points, err := d.querier.Plot(domain.PlotQuery{Region: region, Years: years, Indicator: ind})
	if err != nil {
		unavailable(c, err)
		return
	}

	name, _ := domain.RegionName(region)
	c.JSON(http.StatusOK, gin.H{
		"region":      region,
		"region_name": name,
		"indicator":   ind,
		"years":       years.String(),
		"points":      points,
		"yearly":      domain.YearlyMeans(points),
	})
}

func handleRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": domain.Regions()})
}

func handleIndicators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"indicators": domain.Indicators})
}

// parseCommon reads the indicator, region and years parameters shared by the
// table and plot endpoints. An integer region outside the known ids is not an
// error; it matches nothing.
func parseCommon(c *gin.Context) (domain.Indicator, int, domain.Range, error) {
	ind, err := domain.ParseIndicator(c.DefaultQuery("indicator", string(defaultIndicator)))
	if err != nil {
		return "", 0, domain.Range{}, err
	}

	region := defaultRegion
	if raw := c.Query("region"); raw != "" {
		region, err = strconv.Atoi(raw)
		if err != nil {
			return "", 0, domain.Range{}, errors.New("region must be an integer")
		}
	}

	years, err := domain.ParseRange(c.DefaultQuery("years", defaultYears))
	if err != nil {
		return "", 0, domain.Range{}, err
	}
	return ind, region, years, nil
}

func (d *dashboard) invalid(c *gin.Context, kind string, err error) {
	d.metrics.Queries.WithLabelValues(kind, "invalid").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func unavailable(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotReady) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
