package app

import (
	"fmt"

	datasource "golden-cross/src/data_source"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/network"
	"golden-cross/src/service"
	"golden-cross/src/storage"
)

// App is the wired dashboard pipeline shared by the server and the CLI.
type App struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Network interfaces.INetworkManager
	Sources *datasource.SourceRegistry
	Cache   interfaces.ISeriesCache
	Source  *datasource.CachedSource
	Service *service.DashboardService
}

// -----------------------------------------------------------------------------

// New builds every component from config.
func New(config *models.MConfig, appLogger *logger.Logger) (*App, error) {
	networkManage := setupNetwork(config, appLogger)

	registry, err := setupDataSources(config, appLogger, networkManage)
	if err != nil {
		return nil, err
	}

	cache, err := setupCache(config, appLogger)
	if err != nil {
		return nil, err
	}

	cached := datasource.NewCachedSource(registry.Active(), cache, appLogger.Named("SeriesCache"))

	return &App{
		Config:  config,
		Logger:  appLogger,
		Network: networkManage,
		Sources: registry,
		Cache:   cache,
		Source:  cached,
		Service: service.NewDashboardService(config, cached, appLogger.Named("Dashboard")),
	}, nil
}

// -----------------------------------------------------------------------------

// Close releases the cache backend.
func (a *App) Close() error {
	return a.Cache.Close()
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig, appLogger *logger.Logger) interfaces.INetworkManager {
	return network.NewSyncNetworkManager(config, appLogger.Named("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupDataSources registers every provider with complete settings and
// activates the configured one
func setupDataSources(config *models.MConfig, appLogger *logger.Logger, networkManage interfaces.INetworkManager) (*datasource.SourceRegistry, error) {
	provider := config.DataSource.Provider
	if provider == "" {
		provider = "yahoo"
	}
	appLogger.Info("Initializing data source %q...", provider)

	registry := datasource.NewSourceRegistry(nil, appLogger.Named("Sources"))
	for _, source := range datasource.NewDataSources(config, networkManage, appLogger) {
		if err := registry.AddSource(source); err != nil {
			return nil, err
		}
	}

	if err := registry.SetActive(provider); err != nil {
		return nil, fmt.Errorf("failed to init data source: %w", err)
	}
	return registry, nil
}

// -----------------------------------------------------------------------------

// setupCache initializes the session cache backend
func setupCache(config *models.MConfig, appLogger *logger.Logger) (interfaces.ISeriesCache, error) {
	cache, err := storage.NewSeriesCache(config, appLogger.Named("Cache"))
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}
	appLogger.Info("Session cache: %s", config.Cache.Backend)
	return cache, nil
}
