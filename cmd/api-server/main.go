// Command api-server runs the sales order HTTP API.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	sale "github.com/salekit/sale-api/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := sale.LoadConfig()
		if err != nil {
			return err
		}
		return sale.Run(ctx, lg, m, cfg)
	})
}
