// Package inttest holds the harness of the integration tests.
//
// Container backed dependencies (PostgreSQL and S3 through gnomock, RabbitMQ through
// testcontainers) are started by the Setup functions, which wait until the container is ready and
// register its cleanup. Tests using them skip themselves in short mode. SetupSQLite and
// SetupHTTPServer need no Docker: they give a migrated in-memory database and a gin server with the
// same middleware as the service, plus a client speaking its JSON envelope.
package inttest
