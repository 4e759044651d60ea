package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name" validate:"required"`
	Host       string            `yaml:"host" validate:"required"`
	Port       int               `yaml:"port" validate:"min=1025,max=65535"`
	LogLevel   string            `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Cache      MCacheConfig      `yaml:"cache"`
	Analysis   MAnalysisConfig   `yaml:"analysis"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout" validate:"min=0"` // seconds, 0 keeps the transport default
	UserAgent      string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	Provider      string `yaml:"provider" validate:"oneof=yahoo polygon csv"`
	BaseURL       string `yaml:"base_url" validate:"omitempty,url"`
	APIKey        string `yaml:"api_key"` // Required for polygon
	CSVDir        string `yaml:"csv_dir"` // Required for csv
	DefaultTicker string `yaml:"default_ticker" validate:"required"`
	DefaultYears  int    `yaml:"default_years" validate:"min=1,max=10"`
}

type MCacheConfig struct {
	Backend   string `yaml:"backend" validate:"oneof=memory sqlite"`
	SQLiteDSN string `yaml:"sqlite_dsn"`
}

type MAnalysisConfig struct {
	TableRows     int `yaml:"table_rows" validate:"min=1"`
	RecentCrosses int `yaml:"recent_crosses" validate:"min=0"`
}
