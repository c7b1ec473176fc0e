package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = afero.NewOsFs() })

	t.Setenv("DB2GO_DATABASE", "testdb")
	t.Setenv("DB2GO_USERNAME", "db2inst1")
	t.Setenv("DB2GO_PASSWORD", "secret")
	t.Setenv("DB2GO_SCHEMA", "APP")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "testdb", cfg.Database)
	assert.Equal(t, "db2inst1", cfg.Username)
	assert.Equal(t, "APP", cfg.Schema)

	// Defaults fill in what the environment leaves out.
	assert.Equal(t, "localhost", cfg.Hostname)
	assert.Equal(t, 50000, cfg.Port)
	assert.Equal(t, "go_ibm_db", cfg.DriverName)
}

func TestLoadDatabaseURLFallback(t *testing.T) {
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = afero.NewOsFs() })

	t.Setenv("DATABASE_URL", "proddb")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "proddb", cfg.Database)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			"minimal",
			Config{Database: "db", Hostname: "localhost", Port: 50000},
			"DATABASE=db;HOSTNAME=localhost;PORT=50000;PROTOCOL=TCPIP",
		},
		{
			"with credentials and schema",
			Config{Database: "db", Hostname: "h", Port: 1, Username: "u", Password: "p", Schema: "S"},
			"DATABASE=db;HOSTNAME=h;PORT=1;PROTOCOL=TCPIP;UID=u;PWD=p;CURRENTSCHEMA=S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
