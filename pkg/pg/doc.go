// Package pg wraps pgx/v5 connection pooling and goose/v3 migrations.
//
// Config is populated from the environment (DATABASE_URL plus PG_* tuning
// knobs). Connect opens a *pgxpool.Pool and retries until the server answers
// a ping. Migrate runs goose commands against SQL files in any fs.FS, which
// lets the binary ship its migrations embedded. WithTx wraps a function in a
// transaction, and the Is*Error helpers classify pgx and SQLSTATE errors so
// repositories can translate them into domain errors.
package pg
