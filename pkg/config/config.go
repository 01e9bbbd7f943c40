package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Session SessionConfig
	Store   StoreConfig
	Sync    SyncConfig
	Chat    ChatConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env             string // development, staging, production
	Name            string
	DefaultLanguage string // fr, en, es
	SwaggerFile     string
}

// DBConfig configuración de PostgreSQL (backend remoto de datos).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver         string // postgres | memory
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int
	ConnectTimeout time.Duration
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig almacén clave-valor para el estado local persistido.
// Addr vacío = almacén en memoria (desarrollo y tests).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig tiempos del proveedor de identidad y del shell de vistas.
type SessionConfig struct {
	ProfileTimeout time.Duration // timeout de la consulta de perfil
	SplashDelay    time.Duration // duración de la pantalla de bienvenida
	TTL            time.Duration // vida de la entrada de sesión en el KV
}

// StoreConfig política de acceso a tiendas.
type StoreConfig struct {
	AdminIsGlobal   bool // admin recibe acceso global además de superadmin
	UnscopedVisible bool // entidades sin store_id visibles para todos
}

// SyncConfig reconciliación de escrituras pendientes.
type SyncConfig struct {
	Interval time.Duration
}

// ChatConfig sondeo del chat de soporte.
type ChatConfig struct {
	PollInterval     time.Duration
	TeamConversation string // conversación interna del personal
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:             getString(v, "APP_ENV", "development"),
			Name:            getString(v, "APP_NAME", "gestion-api"),
			DefaultLanguage: getString(v, "APP_DEFAULT_LANGUAGE", "fr"),
			SwaggerFile:     getString(v, "APP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		DB: DBConfig{
			Driver:         getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "gestion"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConns:       getInt(v, "DB_MAX_CONNS", 25),
			ConnectTimeout: getDuration(v, "DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "gestion-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Session: SessionConfig{
			ProfileTimeout: getDuration(v, "SESSION_PROFILE_TIMEOUT", 5*time.Second),
			SplashDelay:    getDuration(v, "SESSION_SPLASH_DELAY", 2*time.Second),
			TTL:            getDuration(v, "SESSION_TTL", 24*time.Hour),
		},
		Store: StoreConfig{
			AdminIsGlobal:   getBool(v, "STORE_ADMIN_GLOBAL", false),
			UnscopedVisible: getBool(v, "STORE_UNSCOPED_VISIBLE", true),
		},
		Sync: SyncConfig{
			Interval: getDuration(v, "SYNC_INTERVAL", 30*time.Second),
		},
		Chat: ChatConfig{
			PollInterval:     getDuration(v, "CHAT_POLL_INTERVAL", 3*time.Second),
			TeamConversation: getString(v, "CHAT_TEAM_CONVERSATION", "team"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "5s", "250ms" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := v.GetString(key)
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
