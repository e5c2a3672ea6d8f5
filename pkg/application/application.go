package application

import (
	"context"
	"embed"
	"io/fs"
	"reflect"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
)

// Module is a self-contained feature unit. Register wires its services
// and schema migrations into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
	Migrations() *MigrationManager
}

func New(pool *pgxpool.Pool, publisher eventbus.EventBus) Application {
	return &application{
		pool:       pool,
		publisher:  publisher,
		services:   make(map[reflect.Type]interface{}),
		migrations: &MigrationManager{},
	}
}

type application struct {
	pool       *pgxpool.Pool
	publisher  eventbus.EventBus
	services   map[reflect.Type]interface{}
	migrations *MigrationManager
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.publisher
}

// RegisterServices registers services keyed by their concrete type.
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		app.services[reflect.TypeOf(service)] = service
	}
}

// Service retrieves a registered service by the argument's concrete type.
func (app *application) Service(service interface{}) interface{} {
	return app.services[reflect.TypeOf(service)]
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

func (app *application) Migrations() *MigrationManager {
	return app.migrations
}

// MigrationManager collects per-module embedded schema files and applies
// them with goose in registration order.
type MigrationManager struct {
	schemas []*embed.FS
}

func (m *MigrationManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *MigrationManager) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	for _, fsys := range m.schemas {
		dirs, err := schemaDirs(fsys)
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			goose.SetBaseFS(fsys)
			if err := goose.RunContext(ctx, "up", db, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func schemaDirs(fsys *embed.FS) ([]string, error) {
	seen := map[string]bool{}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && fs.ValidPath(path) {
			dir := pathDir(path)
			seen[dir] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func pathDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
