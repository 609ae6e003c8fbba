// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// The Mongo fields are nil when the audit store is disabled.
type DBDeps struct {
	Postgres      *sql.DB
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
