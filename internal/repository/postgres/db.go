package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/williamdagle/clinic-admin-api/internal/config"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Pools carries the two database capabilities. App is the tenant-scoped
// application role; Privileged is used only by provisioning and hard-delete
// paths. Which one a repository gets is an explicit constructor argument.
type Pools struct {
	App        *sqlx.DB
	Privileged *sqlx.DB
}

func NewPools(cfg config.DatabaseConfig) (*Pools, error) {
	app, err := NewDB(cfg)
	if err != nil {
		return nil, err
	}

	privCfg := cfg
	if cfg.PrivilegedUser != "" {
		privCfg.User = cfg.PrivilegedUser
		privCfg.Password = cfg.PrivilegedPassword
	}

	privileged, err := NewDB(privCfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	return &Pools{App: app, Privileged: privileged}, nil
}

func (p *Pools) Close() {
	p.App.Close()
	if p.Privileged != p.App {
		p.Privileged.Close()
	}
}
