package datasource

import (
	"fmt"
	"sort"
	"sync"

	"golden-cross/src/data_source/csvfile"
	"golden-cross/src/data_source/polygon"
	"golden-cross/src/data_source/yahoo"
	"golden-cross/src/helpers"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
)

// SourceRegistry holds the providers known to the process and which one
// serves requests.
type SourceRegistry struct {
	Sources map[string]interfaces.IDataSource
	Logger  *logger.Logger
	active  string
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSourceRegistry(sources []interfaces.IDataSource, log *logger.Logger) *SourceRegistry {
	r := &SourceRegistry{
		Sources: make(map[string]interfaces.IDataSource),
		Logger:  log,
	}

	for _, s := range sources {
		r.Sources[s.Name()] = s
		if r.active == "" {
			r.active = s.Name()
		}
	}

	return r
}

// -----------------------------------------------------------------------------

// NewDataSource builds the provider named by data_source.provider.
func NewDataSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) (interfaces.IDataSource, error) {
	switch cfg.DataSource.Provider {
	case "", "yahoo":
		return yahoo.NewYahooFinanceSource(cfg, netMgr, log.Named("YahooFinance")), nil
	case "polygon":
		return polygon.NewPolygonSource(cfg, log.Named("Polygon")), nil
	case "csv":
		return csvfile.NewCSVSource(cfg, log.Named("CSV")), nil
	default:
		return nil, helpers.NewConfigurationError(fmt.Sprintf("unknown data source provider %q", cfg.DataSource.Provider), nil)
	}
}

// -----------------------------------------------------------------------------

// NewDataSources builds every provider whose settings are complete. Yahoo
// needs none; polygon needs an API key and csv a directory.
func NewDataSources(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) []interfaces.IDataSource {
	providers := []string{"yahoo"}
	if cfg.DataSource.APIKey != "" {
		providers = append(providers, "polygon")
	}
	if cfg.DataSource.CSVDir != "" {
		providers = append(providers, "csv")
	}

	active := cfg.DataSource.Provider
	if active == "" {
		active = "yahoo"
	}

	sources := make([]interfaces.IDataSource, 0, len(providers))
	for _, name := range providers {
		scoped := *cfg
		scoped.DataSource.Provider = name
		// base_url belongs to the configured provider only
		if name != active {
			scoped.DataSource.BaseURL = ""
		}
		source, err := NewDataSource(&scoped, netMgr, log)
		if err != nil {
			continue
		}
		sources = append(sources, source)
	}
	return sources
}

// -----------------------------------------------------------------------------

// AddSource registers a source under its name
func (r *SourceRegistry) AddSource(source interfaces.IDataSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := source.Name()
	if _, exists := r.Sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}

	r.Sources[name] = source
	if r.active == "" {
		r.active = name
	}
	r.Logger.Info("Added source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// Names returns the registered source names, sorted
func (r *SourceRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.Sources))
	for name := range r.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// SetActive selects the source that Active returns
func (r *SourceRegistry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.Sources[name]; !exists {
		return helpers.NewConfigurationError(fmt.Sprintf("source %s is not registered", name), nil)
	}
	r.active = name
	r.Logger.Info("Active source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// Active returns the source serving requests, or nil if none is registered
func (r *SourceRegistry) Active() interfaces.IDataSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Sources[r.active]
}
