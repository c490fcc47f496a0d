// Package config carga la configuración desde archivo YAML, variables PETCLINIC_* y .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "PETCLINIC"

const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Store    string         `mapstructure:"store" yaml:"store"`
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DataConfig: archivos que usa el shell para las opciones guardar/cargar.
type DataConfig struct {
	JSONFile string `mapstructure:"json_file" yaml:"json_file"`
	XMLFile  string `mapstructure:"xml_file" yaml:"xml_file"`
}

// DatabaseConfig: DSN para postgres, Path para sqlite.
type DatabaseConfig struct {
	DSN  string `mapstructure:"dsn" yaml:"dsn"`
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

func Defaults() Config {
	return Config{
		Store: StoreFile,
		Data: DataConfig{
			JSONFile: "animals.json",
			XMLFile:  "animals.xml",
		},
		Database: DatabaseConfig{
			Path: "animals.db",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load arma un viper nuevo: defaults < archivo < .env/entorno.
// cfgFile vacío = sin archivo; un archivo indicado que no existe es error.
func Load(cfgFile string) (Config, error) {
	// .env es opcional
	_ = godotenv.Load()

	v := viper.New()
	d := Defaults()
	v.SetDefault("store", d.Store)
	v.SetDefault("data.json_file", d.Data.JSONFile)
	v.SetDefault("data.xml_file", d.Data.XMLFile)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("config: store=postgres requires database.dsn")
		}
	case StoreSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("config: store=sqlite requires database.path")
		}
	default:
		return fmt.Errorf("config: unknown store %q (want %s, %s, %s or %s)", c.Store, StoreFile, StoreMemory, StorePostgres, StoreSQLite)
	}
	if strings.TrimSpace(c.Data.JSONFile) == "" || strings.TrimSpace(c.Data.XMLFile) == "" {
		return errors.New("config: data.json_file and data.xml_file must not be empty")
	}
	return nil
}

// IsDatabase indica si el backend es una base SQL (postgres o sqlite).
func (c Config) IsDatabase() bool {
	return c.Store == StorePostgres || c.Store == StoreSQLite
}

// WriteDefault escribe la configuración por defecto en YAML. No pisa un archivo existente.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Defaults()); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	return os.WriteFile(path, []byte(buf.String()), 0o644)
}
