package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "pharmacy-api", cfg.App.Name)
	assert.Equal(t, "pharmacy_inventory", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.Security.JWTExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.JWTRefreshExpiration)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes())
	assert.False(t, cfg.Storage.UseS3())
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_NAME", "other")
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("AWS_S3_BUCKET", "pharmacy-imports")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "other", cfg.Database.Name)
	assert.Equal(t, 15*time.Minute, cfg.Security.JWTExpiration)
	assert.True(t, cfg.Storage.UseS3())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT: \"9090\"\nUPLOAD_MAX_SIZE_MB: 2\n"), 0o600))

	t.Setenv("APP_ENV", "test")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Upload.MaxSizeMB)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load(discardLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredConfig))
}

func TestValidators(t *testing.T) {
	base := func() *Config {
		v := newViper("test")
		return build(v, "test")
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults_valid", mutate: func(c *Config) {}},
		{name: "missing_db_host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "placeholder_db_name", mutate: func(c *Config) { c.Database.Name = "MISSING_DB" }, wantErr: true},
		{name: "min_conns_above_max", mutate: func(c *Config) { c.Database.MinConnections = 50 }, wantErr: true},
		{name: "zero_upload_limit", mutate: func(c *Config) { c.Upload.MaxSizeMB = 0 }, wantErr: true},
		{name: "refresh_shorter_than_access", mutate: func(c *Config) {
			c.Security.JWTRefreshExpiration = time.Minute
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSecurityValidator(t *testing.T) {
	cfg := build(newViper("production"), "production")
	cfg.Security.JWTSecret = "short"
	assert.Error(t, (&SecurityValidator{}).Validate(cfg))

	cfg.Security.JWTSecret = "a-very-long-production-secret-value-123"
	cfg.Security.AllowedOrigins = []string{"https://pharmacy.example"}
	assert.NoError(t, (&SecurityValidator{}).Validate(cfg))

	cfg.Security.BcryptCost = 20
	assert.Error(t, (&SecurityValidator{}).Validate(cfg))
}

type fakeSecretsAPI struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecretsManager_CachesSecret(t *testing.T) {
	api := &fakeSecretsAPI{secret: `{"JWT_SECRET":"from-aws","DB_PASSWORD":"pw"}`}
	sm := newAWSSecretsManager(api, "pharmacy/prod", discardLogger())

	for i := 0; i < 3; i++ {
		got, err := sm.GetSecrets(context.Background(), []string{"JWT_SECRET", "UNKNOWN"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"JWT_SECRET": "from-aws"}, got)
	}
	assert.Equal(t, 1, api.calls)
}

func TestAWSSecretsManager_InvalidJSON(t *testing.T) {
	sm := newAWSSecretsManager(&fakeSecretsAPI{secret: "not-json"}, "x", discardLogger())
	_, err := sm.GetSecrets(context.Background(), []string{"JWT_SECRET"})
	assert.Error(t, err)
}

func TestApplySecrets(t *testing.T) {
	cfg := build(newViper("production"), "production")
	cfg.Database.SSLMode = "require"
	cfg.Security.AllowedOrigins = []string{"https://pharmacy.example"}

	api := &fakeSecretsAPI{secret: `{"JWT_SECRET":"a-very-long-production-secret-value-123","DB_PASSWORD":"prod-pw"}`}
	require.NoError(t, ApplySecrets(context.Background(), cfg, newAWSSecretsManager(api, "x", discardLogger())))

	assert.Equal(t, "a-very-long-production-secret-value-123", cfg.Security.JWTSecret)
	assert.Equal(t, "prod-pw", cfg.Database.Password)
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	got, err := NewEnvSecretsManager().GetSecrets(context.Background(), []string{"JWT_SECRET", "DB_PASSWORD_UNSET"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"JWT_SECRET": "env-secret"}, got)
}
