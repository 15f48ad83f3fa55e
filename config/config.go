package config

import "time"

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"helianthus"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Database driver ("sqlite3" or "postgres")
	DatabaseDriver string `env:"DB_DRIVER" env-default:"sqlite3"`
	// Database connection string. For sqlite3 this is the database file path,
	// for postgres a lib/pq DSN.
	DatabaseURL string `env:"DATABASE_URL" env-default:"helianthus.db"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path. Empty means pick the per-driver default
	// (db/sqlite3 or db/pg).
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:""`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// SPARQL endpoint serving the knowledge graph
	WikidataEndpoint string `env:"WIKIDATA_ENDPOINT" env-default:"https://query.wikidata.org/sparql"`
	// User-Agent sent with every source request (Wikimedia policy requires one)
	WikidataUserAgent string `env:"WIKIDATA_USER_AGENT" env-default:"HelianthusIngest/1.0 (https://github.com/pntechnology/Helianthus)"`
	// Timeout for SELECT queries
	SourceQueryTimeout time.Duration `env:"SOURCE_QUERY_TIMEOUT" env-default:"60s"`
	// Timeout for ASK queries
	SourceAskTimeout time.Duration `env:"SOURCE_ASK_TIMEOUT" env-default:"30s"`
	// Attempts per query before the source is considered unavailable
	SourceMaxAttempts int `env:"SOURCE_MAX_ATTEMPTS" env-default:"3"`
	// Fixed delay between retry attempts
	SourceRetryBackoff time.Duration `env:"SOURCE_RETRY_BACKOFF" env-default:"3s"`

	// Ingestion settings
	// Default result-size limit for the paintings query
	IngestDefaultLimit int `env:"INGEST_DEFAULT_LIMIT" env-default:"200"`
	// Delay between per-painting location queries in the enrichment phase
	EnrichmentPacing time.Duration `env:"ENRICHMENT_PACING" env-default:"200ms"`
	// Gate ingestion on the artist actually having the painter occupation
	ValidatePainter bool `env:"VALIDATE_PAINTER" env-default:"true"`

	// Tracing settings
	// Enable span export (console exporter)
	TracingEnabled bool `env:"TRACING_ENABLED" env-default:"false"`
}
