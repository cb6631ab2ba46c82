//go:build integration

package testinfra

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// Postgres is a throwaway database for integration tests.
type Postgres struct {
	DB       *sql.DB
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// StartPostgres connects to TEST_DATABASE_URL when set, otherwise starts a
// postgres container through the local Docker daemon.
func StartPostgres() (*Postgres, error) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open test database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping test database: %w", err)
		}
		return &Postgres{DB: db}, nil
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=taskquest",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=taskquest_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://taskquest:secret@%s/taskquest_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	var db *sql.DB
	err = pool.Retry(func() error {
		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		return db.Ping()
	})
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("wait for postgres: %w", err)
	}
	return &Postgres{DB: db, pool: pool, resource: resource}, nil
}

// Close closes the connection and removes the container, if one was started.
func (p *Postgres) Close() error {
	_ = p.DB.Close()
	if p.pool != nil && p.resource != nil {
		return p.pool.Purge(p.resource)
	}
	return nil
}
