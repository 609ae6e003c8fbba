// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/neuronest/internal/app/resources"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates) and settle handler
// timeouts before any request arrives.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	// Signup, resend and employee creation deliver mail inside the Long
	// timeout, so it must outlast the SMTP client timeout.
	if timeouts.Long() <= mailTimeout {
		timeouts.Configure(timeouts.Config{Long: mailTimeout + 5*time.Second})
	}
	cur := timeouts.Current()
	logger.Info("handler timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))
	return nil
}
