// internal/platform/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"arlo/internal/platform/registry"
	"arlo/internal/platform/validator"
)

// EnvPrefix es el prefijo de todas las variables de entorno de arlo.
const EnvPrefix = "ARLO_"

const (
	defaultTimeoutMS = 20000
	defaultGraceMS   = 2000
	defaultListen    = "127.0.0.1:8080"
	defaultIDField   = "imdbId"
)

// ErrUsage marca errores de invocación (flags o argumentos inválidos).
var ErrUsage = errors.New("usage error")

type Config struct {
	Core    Core    `yaml:"core"`
	Source  Source  `yaml:"source"`
	Output  Output  `yaml:"output"`
	Network Network `yaml:"network"`
	Server  Server  `yaml:"server"`

	// Ruta del archivo YAML efectivamente cargado ("" si ninguno)
	File string `yaml:"-"`
}

type Core struct {
	Keyword      string `yaml:"-"`
	TimeoutMS    int    `yaml:"timeout_ms"`
	GraceMS      int    `yaml:"grace_ms"`
	LogLevel     string `yaml:"log_level"`
	PrintVersion bool   `yaml:"-"`
	PrintHelp    bool   `yaml:"-"`
}

type Source struct {
	// Orden significativo: define la prioridad ante identificadores duplicados
	Sources []registry.Entry `yaml:"sources"`
	IDField string           `yaml:"id_field"`
}

type Output struct {
	File       string `yaml:"file"` // "" = stdout
	Pretty     bool   `yaml:"pretty"`
	UIDisabled bool   `yaml:"quiet"`
}

type Network struct {
	ProxyURL     string  `yaml:"proxy_url"`
	UserAgent    string  `yaml:"user_agent"`
	RateLimit    float64 `yaml:"rate_limit"`
	MaxBodyBytes int64   `yaml:"max_body_bytes"`
}

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: Core{
			TimeoutMS: defaultTimeoutMS,
			GraceMS:   defaultGraceMS,
			LogLevel:  "warn",
		},
		Source: Source{
			Sources: registry.DefaultEntries(),
			IDField: defaultIDField,
		},
		Network: Network{
			UserAgent:    "arlo/1.0",
			MaxBodyBytes: 8 << 20,
		},
		Server: Server{
			Listen: defaultListen,
		},
	}
}

// Load inicializa la configuración por capas:
// defaults -> archivo YAML -> ENV -> FLAGS (cada capa pisa a la anterior).
// args no incluye el nombre del programa.
func Load(args []string, version, commit, date string) (Config, error) {
	cfg := DefaultConfig()

	path := findConfigPath(args)
	if path == "" {
		path = getenv(EnvPrefix+"CONFIG", "")
	}
	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args, io.Discard); err != nil {
		return cfg, err
	}

	normalize(&cfg)

	if cfg.Core.PrintHelp || cfg.Core.PrintVersion {
		return cfg, nil
	}
	return cfg, cfg.Validate()
}

// fileSource permite omitir "enabled" en YAML (por defecto true).
type fileSource struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

type fileConfig struct {
	TimeoutMS    *int         `yaml:"timeout_ms"`
	GraceMS      *int         `yaml:"grace_ms"`
	LogLevel     string       `yaml:"log_level"`
	IDField      string       `yaml:"id_field"`
	Sources      []fileSource `yaml:"sources"`
	Output       string       `yaml:"output"`
	Pretty       *bool        `yaml:"pretty"`
	Quiet        *bool        `yaml:"quiet"`
	ProxyURL     string       `yaml:"proxy_url"`
	UserAgent    string       `yaml:"user_agent"`
	RateLimit    *float64     `yaml:"rate_limit"`
	MaxBodyBytes *int64       `yaml:"max_body_bytes"`
	Listen       string       `yaml:"listen"`
}

// loadFromFile aplica un archivo YAML. Una lista "sources" no vacía
// reemplaza el catálogo por defecto completo.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.TimeoutMS != nil {
		cfg.Core.TimeoutMS = *fc.TimeoutMS
	}
	if fc.GraceMS != nil {
		cfg.Core.GraceMS = *fc.GraceMS
	}
	if fc.LogLevel != "" {
		cfg.Core.LogLevel = fc.LogLevel
	}
	if fc.IDField != "" {
		cfg.Source.IDField = fc.IDField
	}
	if len(fc.Sources) > 0 {
		entries := make([]registry.Entry, 0, len(fc.Sources))
		for _, s := range fc.Sources {
			enabled := true
			if s.Enabled != nil {
				enabled = *s.Enabled
			}
			entries = append(entries, registry.Entry{Name: s.Name, Template: s.URL, Enabled: enabled})
		}
		cfg.Source.Sources = entries
	}
	if fc.Output != "" {
		cfg.Output.File = fc.Output
	}
	if fc.Pretty != nil {
		cfg.Output.Pretty = *fc.Pretty
	}
	if fc.Quiet != nil {
		cfg.Output.UIDisabled = *fc.Quiet
	}
	if fc.ProxyURL != "" {
		cfg.Network.ProxyURL = fc.ProxyURL
	}
	if fc.UserAgent != "" {
		cfg.Network.UserAgent = fc.UserAgent
	}
	if fc.RateLimit != nil {
		cfg.Network.RateLimit = *fc.RateLimit
	}
	if fc.MaxBodyBytes != nil {
		cfg.Network.MaxBodyBytes = *fc.MaxBodyBytes
	}
	if fc.Listen != "" {
		cfg.Server.Listen = fc.Listen
	}

	cfg.File = path
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv(EnvPrefix+"TIMEOUT_MS", ""); v != "" {
		cfg.Core.TimeoutMS = parseInt(v, cfg.Core.TimeoutMS)
	}
	if v := getenv(EnvPrefix+"GRACE_MS", ""); v != "" {
		cfg.Core.GraceMS = parseInt(v, cfg.Core.GraceMS)
	}
	if v := getenv(EnvPrefix+"LOG_LEVEL", ""); v != "" {
		cfg.Core.LogLevel = v
	}
	if v := getenv(EnvPrefix+"ID_FIELD", ""); v != "" {
		cfg.Source.IDField = v
	}
	if v := getenv(EnvPrefix+"OUTPUT", ""); v != "" {
		cfg.Output.File = v
	}
	if v := getenv(EnvPrefix+"PRETTY", ""); v != "" {
		cfg.Output.Pretty = parseBool(v)
	}
	if v := getenv(EnvPrefix+"QUIET", ""); v != "" {
		cfg.Output.UIDisabled = parseBool(v)
	}
	if v := getenv(EnvPrefix+"PROXY_URL", ""); v != "" {
		cfg.Network.ProxyURL = v
	}
	if v := getenv(EnvPrefix+"USER_AGENT", ""); v != "" {
		cfg.Network.UserAgent = v
	}
	if v := getenv(EnvPrefix+"RATE_LIMIT", ""); v != "" {
		cfg.Network.RateLimit = parseFloat(v, cfg.Network.RateLimit)
	}
	if v := getenv(EnvPrefix+"LISTEN", ""); v != "" {
		cfg.Server.Listen = v
	}

	// Sources config desde ENV
	// Formato: ARLO_SOURCES_THETVDB_ENABLED=false
	//          ARLO_SOURCES_THETVDB_URL=https://mirror/thetvdb?q={keyword}
	for i := range cfg.Source.Sources {
		src := &cfg.Source.Sources[i]
		prefix := fmt.Sprintf("%sSOURCES_%s_", EnvPrefix, validator.EnvName(src.Name))

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			src.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"URL", ""); v != "" {
			src.Template = v
		}
	}
}

// loadFromFlags parsea flags de CLI con pflag (POSIX: -x, --long).
func loadFromFlags(cfg *Config, args []string, errOut io.Writer) error {
	fs := pflag.NewFlagSet("arlo", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {}
	fs.SortFlags = false

	var configPath string
	fs.StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	fs.IntVarP(&cfg.Core.TimeoutMS, "timeout", "T", cfg.Core.TimeoutMS, "Global deadline in milliseconds")
	fs.IntVar(&cfg.Core.GraceMS, "grace", cfg.Core.GraceMS, "Wait after the deadline for cancelled sources, in milliseconds")
	fs.StringVar(&cfg.Core.LogLevel, "log-level", cfg.Core.LogLevel, "debug, info, warn, error or off")
	fs.BoolVarP(&cfg.Core.PrintVersion, "version", "v", false, "Print version information and exit")
	fs.BoolVarP(&cfg.Core.PrintHelp, "help", "h", false, "Show help and exit")

	fs.StringVar(&cfg.Source.IDField, "id-field", cfg.Source.IDField, "Record field used as identity")

	// Source configs: habilitar y URL por fuente
	for i := range cfg.Source.Sources {
		src := &cfg.Source.Sources[i]
		fs.BoolVar(&src.Enabled, "src."+src.Name, src.Enabled,
			fmt.Sprintf("Enable source %s", src.Name))
		fs.StringVar(&src.Template, "src."+src.Name+".url", src.Template,
			fmt.Sprintf("URL template for source %s", src.Name))
	}

	fs.StringVarP(&cfg.Output.File, "out", "o", cfg.Output.File, "Write JSON to file instead of stdout")
	fs.BoolVar(&cfg.Output.Pretty, "pretty", cfg.Output.Pretty, "Indent JSON output")
	fs.BoolVarP(&cfg.Output.UIDisabled, "quiet", "q", cfg.Output.UIDisabled, "Disable progress output")

	fs.StringVarP(&cfg.Network.ProxyURL, "proxy", "p", cfg.Network.ProxyURL, "http(s) or socks5 proxy URL")
	fs.StringVar(&cfg.Network.UserAgent, "user-agent", cfg.Network.UserAgent, "User-Agent header")
	fs.Float64Var(&cfg.Network.RateLimit, "rate-limit", cfg.Network.RateLimit, "Max requests per second, 0 = unlimited")
	fs.Int64Var(&cfg.Network.MaxBodyBytes, "max-body", cfg.Network.MaxBodyBytes, "Max response size per source in bytes")

	fs.BoolVar(&cfg.Server.Enabled, "serve", cfg.Server.Enabled, "Run the HTTP search front end")
	fs.StringVar(&cfg.Server.Listen, "listen", cfg.Server.Listen, "Listen address for --serve")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rest := fs.Args()
	if cfg.Server.Enabled {
		if len(rest) > 0 {
			return fmt.Errorf("%w: --serve takes no positional arguments", ErrUsage)
		}
		return nil
	}
	switch len(rest) {
	case 0:
		// Validate decide si falta
	case 1:
		cfg.Core.Keyword = rest[0]
	default:
		return fmt.Errorf("%w: expected exactly one keyword, got %d arguments", ErrUsage, len(rest))
	}
	return nil
}

// findConfigPath busca --config/-c antes del parseo completo: el archivo
// define qué fuentes existen y, con ellas, qué flags --src.* se registran.
func findConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return ""
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c") && len(a) > 2 && !strings.HasPrefix(a, "--"):
			return strings.TrimPrefix(strings.TrimPrefix(a, "-c"), "=")
		}
	}
	return ""
}

func normalize(c *Config) {
	c.Core.Keyword = validator.NormalizeKeyword(c.Core.Keyword)
	if c.Core.TimeoutMS <= 0 {
		c.Core.TimeoutMS = defaultTimeoutMS
	}
	if c.Core.GraceMS <= 0 {
		c.Core.GraceMS = defaultGraceMS
	}
	c.Core.LogLevel = strings.ToLower(strings.TrimSpace(c.Core.LogLevel))
	c.Source.IDField = strings.TrimSpace(c.Source.IDField)
	if c.Source.IDField == "" {
		c.Source.IDField = defaultIDField
	}
	if c.Network.RateLimit < 0 {
		c.Network.RateLimit = 0
	}
	if c.Network.MaxBodyBytes <= 0 {
		c.Network.MaxBodyBytes = 8 << 20
	}
	c.Network.ProxyURL = strings.TrimSpace(c.Network.ProxyURL)
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
}

// Validate verifica la configuración ya normalizada.
func (c Config) Validate() error {
	if !c.Server.Enabled {
		if c.Core.Keyword == "" {
			return fmt.Errorf("%w: a search keyword is required", ErrUsage)
		}
		if !validator.IsKeyword(c.Core.Keyword) {
			return fmt.Errorf("%w: invalid keyword", ErrUsage)
		}
	} else if !validator.IsListenAddr(c.Server.Listen) {
		return fmt.Errorf("%w: invalid listen address %q", ErrUsage, c.Server.Listen)
	}
	if c.Network.ProxyURL != "" && !validator.IsProxyURL(c.Network.ProxyURL) {
		return fmt.Errorf("%w: invalid proxy url %q", ErrUsage, c.Network.ProxyURL)
	}
	enabled := 0
	for _, s := range c.Source.Sources {
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("%w: no sources enabled", ErrUsage)
	}
	return nil
}

// ToYAML serializa la configuración (útil para debugging).
func (c Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el deadline global como time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Core.TimeoutMS) * time.Millisecond
}

// Grace devuelve la espera posterior al deadline como time.Duration.
func (c Config) Grace() time.Duration {
	return time.Duration(c.Core.GraceMS) * time.Millisecond
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
