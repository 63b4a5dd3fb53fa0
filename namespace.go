package main

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Namespace struct {
	gorm.Model

	Name    string `json:"name" gorm:"column:name;uniqueIndex"`
	Offline string `json:"offline" gorm:"column:offline"`
}

// Registry resolves namespaces by name. Backed by postgres when the db block
// is enabled, otherwise by the static table from the config file. Lookups go
// against an in-memory map, the db copy is refreshed on an interval.
type Registry struct {
	mu   sync.RWMutex
	data map[string]*Namespace

	db   *gorm.DB
	done chan struct{}
}

func newRegistry(cfg *Config) *Registry {
	log := zap.S()

	if !cfg.DB.Enable {
		return newStaticRegistry(cfg.Namespaces)
	}

	loglevel := logger.Error
	if cfg.DB.Log {
		loglevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		CreateBatchSize: 10,
		Logger: logger.New(zap.NewStdLog(zap.L()), logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      loglevel,
		}),
	})
	if err != nil {
		log.Fatal(err)
	}
	db.AutoMigrate(new(Namespace))

	r := &Registry{
		data: map[string]*Namespace{},
		db:   db,
		done: make(chan struct{}),
	}
	if err := r.Reload(); err != nil {
		log.Fatal("namespace reload:", err)
	}
	interval := cfg.DB.ReloadInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go r.watch(interval)
	return r
}

func newStaticRegistry(namespaces map[string]NamespaceConfig) *Registry {
	r := &Registry{
		data: map[string]*Namespace{},
	}
	for name, nc := range namespaces {
		r.data[name] = &Namespace{
			Name:    name,
			Offline: nc.Offline,
		}
	}
	return r
}

func (r *Registry) watch(interval time.Duration) {
	log := zap.S().With("method", "watch")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := r.Reload(); err != nil {
				log.Error("namespace reload:", err)
			}
		case <-r.done:
			return
		}
	}
}

func (r *Registry) Reload() error {
	nss := []Namespace{}
	if err := r.db.Find(&nss).Error; err != nil {
		return err
	}
	data := make(map[string]*Namespace, len(nss))
	for i := range nss {
		data[nss[i].Name] = &nss[i]
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

func (r *Registry) Lookup(name string) (*Namespace, bool) {
	r.mu.RLock()
	ns, ok := r.data[name]
	r.mu.RUnlock()
	return ns, ok
}

func (r *Registry) Close() {
	if r.done != nil {
		close(r.done)
	}
}
