package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/muhammadchandra19/flashsale/internal/httpapi"
	"github.com/muhammadchandra19/flashsale/pkg/httplib/healthcheck"
)

// HTTP is the HTTP surface of the reservation service.
type HTTP struct {
	Handler *httpapi.Handler
	Router  http.Handler
}

func (b *Bootstrap) registerHTTP() {
	health := healthcheck.HealthCheck{
		Checks: []healthcheck.Check{
			{Name: "redis", Fn: b.Redis.Ping},
			{Name: "postgresql", Fn: b.checkPostgreSQL},
		},
	}

	b.HTTP.Handler = httpapi.NewHandler(b.Usecase.ReservationUsecase, b.Usecase.StockUsecase, b.Logger)
	b.HTTP.Router = httpapi.NewRouter(b.HTTP.Handler, health, b.Logger)
}

func (b *Bootstrap) checkPostgreSQL(ctx context.Context) error {
	health := b.PostgreSQL.CheckHealth(ctx)
	if health.Status != "healthy" {
		return fmt.Errorf("postgresql %s: %s", health.Status, health.Error)
	}
	return nil
}
