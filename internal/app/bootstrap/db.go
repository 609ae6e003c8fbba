// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/audit"
	"github.com/dalemusser/neuronest/internal/app/store/migrations"
	"github.com/dalemusser/waffle/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connMaxIdle = 5 * time.Minute

// openPostgres is a seam for tests.
var openPostgres = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// ConnectDB opens the PostgreSQL pool and, when configured, the Mongo audit
// client. Both are pinged so a bad DSN fails startup instead of the first
// request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	db, err := openPostgres(appCfg.PostgresDSN)
	if err != nil {
		return deps, fmt.Errorf("postgres open: %w", err)
	}
	if appCfg.PostgresMaxOpenConns > 0 {
		db.SetMaxOpenConns(appCfg.PostgresMaxOpenConns)
		db.SetMaxIdleConns(appCfg.PostgresMaxOpenConns / 2)
	}
	db.SetConnMaxIdleTime(connMaxIdle)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return deps, fmt.Errorf("postgres ping: %w", err)
	}
	deps.Postgres = db
	logger.Info("connected to PostgreSQL", zap.Int("max_open_conns", appCfg.PostgresMaxOpenConns))

	if appCfg.MongoURI == "" {
		logger.Info("mongo_uri not set; audit events go to the application log only")
		return deps, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		_ = db.Close()
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		_ = db.Close()
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB audit store", zap.String("database", appCfg.MongoDatabase))

	return deps, nil
}

// EnsureSchema applies pending PostgreSQL migrations and creates the audit
// indexes when Mongo is configured.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := migrations.Up(ctx, deps.Postgres); err != nil {
		logger.Error("postgres migrations failed", zap.Error(err))
		return err
	}
	logger.Info("postgres schema up to date")

	if deps.MongoDatabase != nil {
		if err := audit.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
			logger.Error("audit index creation failed", zap.Error(err))
			return fmt.Errorf("audit indexes: %w", err)
		}
	}
	return nil
}
