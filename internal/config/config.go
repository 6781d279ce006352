package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StoreConfig holds the object-store connection settings.
type StoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// WaitConfig controls the start-up wait for the object store.
type WaitConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

type APIConfig struct {
	BaseURL string
}

type SeedConfig struct {
	DataDir string
}

type Config struct {
	Env   string
	API   APIConfig
	Store StoreConfig
	Seed  SeedConfig
	Wait  WaitConfig
}

// FileConfig mirrors the optional YAML config file. File values only replace
// the built-in defaults; environment variables always win.
type FileConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	DataDir    string `yaml:"data_dir"`
}

// Load builds the effective configuration: built-in defaults, overlaid by the
// config file when present, overlaid by environment variables.
func Load() (*Config, error) {
	fc, err := LoadFile(Path())
	if err != nil {
		return nil, err
	}

	useSSLDef := "false"
	if fc.UseSSL {
		useSSLDef = "true"
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "dev"),
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", or(fc.APIBaseURL, "http://localhost:8080")),
		},
		Store: StoreConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", or(fc.Endpoint, "localhost:9000")),
			AccessKey: getEnv("MINIO_ACCESS_KEY", or(fc.AccessKey, "minioadmin")),
			SecretKey: getEnv("MINIO_SECRET_KEY", or(fc.SecretKey, "minioadmin")),
			UseSSL:    getEnv("MINIO_USE_SSL", useSSLDef) == "true",
			Region:    getEnv("MINIO_REGION", or(fc.Region, "us-east-1")),
		},
		Seed: SeedConfig{
			DataDir: getEnv("SEED_DATA_DIR", or(fc.DataDir, "testdata/seed")),
		},
		Wait: WaitConfig{
			MaxRetries: getEnvInt("MINIO_WAIT_RETRIES", 30),
			RetryDelay: getEnvDuration("MINIO_WAIT_DELAY", 2*time.Second),
		},
	}
	return cfg, nil
}

// Path returns the config file location: OPSKIT_CONFIG when set, otherwise
// ~/.opskit/config.yml.
func Path() string {
	if p := os.Getenv("OPSKIT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(home, ".opskit", "config.yml")
}

// LoadFile reads a FileConfig from path. A missing file yields a zero
// FileConfig and no error; a malformed one is an error.
func LoadFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(raw, fc); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return fc, nil
}

// SaveFile writes fc to path, creating the parent directory if needed.
func SaveFile(path string, fc *FileConfig) error {
	raw, err := yaml.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrapf(err, "create config dir for %s", path)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" { return v }
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func or(v, def string) string {
	if v != "" { return v }
	return def
}
