package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/axent-pl/idtoken/common/logx"
	"github.com/axent-pl/idtoken/config"
	"github.com/axent-pl/idtoken/idtoken"
	"github.com/axent-pl/idtoken/jwks"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name: "defaults",
			body: "google:\n  client_ids: [web-client]\n",
			check: func(t *testing.T, cfg *config.Config) {
				require.Equal(t, 8080, cfg.Server.GetPort())
				require.Equal(t, jwks.GoogleCertsURL, cfg.Google.GetJWKSURL())
				require.Equal(t, idtoken.GoogleIssuers, cfg.Google.GetIssuers())
				require.Equal(t, time.Hour, cfg.Google.GetKeyMaxAge())
				require.Equal(t, 300*time.Second, cfg.Google.GetClockSkew())
				require.Equal(t, 5*time.Second, cfg.Google.GetFetchTimeout())
				require.Equal(t, 24*time.Hour, cfg.Google.GetStaleAlarm())
			},
		},
		{
			name: "overrides",
			body: `
server:
  host: 127.0.0.1
  port: 9000
google:
  client_ids: [web-client, android-client]
  jwks_url: https://keys.example.com/certs
  key_max_age: 600
  clock_skew: 60
  fetch_timeout: 2
  stale_alarm: 0
logging:
  level: debug
  format: json
`,
			check: func(t *testing.T, cfg *config.Config) {
				require.Equal(t, 9000, cfg.Server.GetPort())
				require.Equal(t, []string{"web-client", "android-client"}, cfg.Google.ClientIDs)
				require.Equal(t, 10*time.Minute, cfg.Google.GetKeyMaxAge())
				require.Equal(t, time.Duration(0), cfg.Google.GetStaleAlarm())

				ks := cfg.Google.KeyStore()
				require.Equal(t, "https://keys.example.com/certs", ks.URL)
				require.Equal(t, 2*time.Second, ks.Timeout)

				v := cfg.Google.Verifier(ks)
				require.Equal(t, time.Minute, v.ClockSkew)
			},
		},
		{
			name: "zero clock skew is kept",
			body: "google:\n  client_ids: [web-client]\n  clock_skew: 0\n",
			check: func(t *testing.T, cfg *config.Config) {
				require.Equal(t, time.Duration(0), cfg.Google.GetClockSkew())
				require.Equal(t, time.Duration(0), cfg.Google.Verifier(cfg.Google.KeyStore()).ClockSkew)
			},
		},
		{name: "missing client ids", body: "server:\n  port: 1\n", wantErr: true},
		{name: "empty client id", body: "google:\n  client_ids: [\"\"]\n", wantErr: true},
		{name: "invalid yaml", body: "google: [", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { logx.SetLogger(nil) })

	var buf bytes.Buffer
	config.InitLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logx.L().Info("dropped")
	logx.L().Warn("kept", "reason", "expired")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"msg":"kept"`)
	require.Contains(t, buf.String(), `"reason":"expired"`)
}
