package datasource

import (
	"testing"

	"golden-cross/src/helpers"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataSource(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "", want: "yahoo"},
		{provider: "yahoo", want: "yahoo"},
		{provider: "polygon", want: "polygon"},
		{provider: "csv", want: "csv"},
		{provider: "bloomberg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &models.MConfig{DataSource: models.MDataSourceConfig{
				Provider: tt.provider,
				APIKey:   "key",
				CSVDir:   t.TempDir(),
			}}
			src, err := NewDataSource(cfg, network.NewSyncNetworkManager(cfg, logger.Nop()), logger.Nop())
			if tt.wantErr {
				var cfgErr *helpers.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}

func TestSourceRegistry(t *testing.T) {
	reg := NewSourceRegistry([]interfaces.IDataSource{&fakeSource{name: "yahoo"}}, logger.Nop())
	assert.Equal(t, "yahoo", reg.Active().Name())

	require.NoError(t, reg.AddSource(&fakeSource{name: "csv"}))
	assert.Error(t, reg.AddSource(&fakeSource{name: "csv"}))
	assert.Equal(t, []string{"csv", "yahoo"}, reg.Names())

	require.NoError(t, reg.SetActive("csv"))
	assert.Equal(t, "csv", reg.Active().Name())
	var cfgErr *helpers.ConfigurationError
	assert.ErrorAs(t, reg.SetActive("polygon"), &cfgErr)
	assert.Equal(t, "csv", reg.Active().Name())
}

func TestNewDataSourcesRegistersCompleteProviders(t *testing.T) {
	cfg := &models.MConfig{DataSource: models.MDataSourceConfig{Provider: "yahoo"}}
	nm := network.NewSyncNetworkManager(cfg, logger.Nop())

	names := func(sources []interfaces.IDataSource) []string {
		out := make([]string, len(sources))
		for i, s := range sources {
			out[i] = s.Name()
		}
		return out
	}

	assert.Equal(t, []string{"yahoo"}, names(NewDataSources(cfg, nm, logger.Nop())))

	cfg.DataSource.APIKey = "key"
	cfg.DataSource.CSVDir = t.TempDir()
	assert.Equal(t, []string{"yahoo", "polygon", "csv"}, names(NewDataSources(cfg, nm, logger.Nop())))
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
}

func TestSourceRegistryEmpty(t *testing.T) {
	reg := NewSourceRegistry(nil, logger.Nop())
	assert.Nil(t, reg.Active())
}
