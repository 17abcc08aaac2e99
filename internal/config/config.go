package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Game     GameConfig
	Arbiter  ArbiterConfig
	Email    EmailConfig
	Judge    JudgeConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single' (для обратной совместимости).
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах).
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах).
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpirationHrs     int    `mapstructure:"expirationHrs"`
	WSTicketExpirySec int    `mapstructure:"wsTicketExpirySec"` // Время жизни тикета для WebSocket в секундах
}

// GameConfig содержит параметры мини-игры на кредиты ревью.
// По умолчанию: ставка 1 кредит, выигрыш 2 кредита, 3 попытки в день.
type GameConfig struct {
	WagerCost     int `mapstructure:"wager_cost"`
	WinReward     int `mapstructure:"win_reward"`
	DailyAttempts int `mapstructure:"daily_attempts"`
}

// ArbiterConfig содержит параметры экономики арбитража апелляций.
// По умолчанию: +5 автору при одобрении, -1 каждому ошибившемуся ревьюеру.
type ArbiterConfig struct {
	ApprovedReward  int `mapstructure:"approved_reward"`
	ReviewerPenalty int `mapstructure:"reviewer_penalty"`
	// ReviewsToDecide: сколько ревью должно набрать решение, чтобы сработал подсчет большинства.
	ReviewsToDecide int `mapstructure:"reviews_to_decide"`
}

// EmailConfig содержит настройки почтовых уведомлений (Resend)
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// JudgeConfig содержит настройки внешнего текстового сервиса для мини-игры
type JudgeConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	ChallengeURL     string `mapstructure:"challenge_url"`
	JudgmentURL      string `mapstructure:"judgment_url"`
	RequestTimeoutMs int    `mapstructure:"request_timeout_ms"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию для политики экономики
	vip.SetDefault("game.wager_cost", 1)
	vip.SetDefault("game.win_reward", 2)
	vip.SetDefault("game.daily_attempts", 3)
	vip.SetDefault("arbiter.approved_reward", 5)
	vip.SetDefault("arbiter.reviewer_penalty", 1)
	vip.SetDefault("arbiter.reviews_to_decide", 3)
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("jwt.wsTicketExpirySec", 60)
	vip.SetDefault("judge.request_timeout_ms", 5000)

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS") // Для массива строк
	vip.BindEnv("redis.addr", "REDIS_ADDR")   // Для одиночной строки
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секции JWT
	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")
	vip.BindEnv("jwt.wsTicketExpirySec", "JWT_WSTICKETEXPIRYSEC")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// Привязка для Email
	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	// Привязка для внешнего судьи мини-игры
	vip.BindEnv("judge.enabled", "JUDGE_ENABLED")
	vip.BindEnv("judge.challenge_url", "JUDGE_CHALLENGE_URL")
	vip.BindEnv("judge.judgment_url", "JUDGE_JUDGMENT_URL")

	// 3. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 4. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 5. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("JWT Expiration Hours: %d", cfg.JWT.ExpirationHrs)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Game: wager=%d reward=%d attempts/day=%d", cfg.Game.WagerCost, cfg.Game.WinReward, cfg.Game.DailyAttempts)
		log.Printf("Arbiter: reward=%d penalty=%d reviews=%d", cfg.Arbiter.ApprovedReward, cfg.Arbiter.ReviewerPenalty, cfg.Arbiter.ReviewsToDecide)
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("Judge Enabled: %t", cfg.Judge.Enabled)
		log.Printf("-----------------------------------------")
	}

	// 7. Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Enabled && cfg.Email.ResendAPIKey == "" {
		return nil, fmt.Errorf("email notifications enabled but RESEND_API_KEY is not set")
	}
	if cfg.Judge.Enabled && (cfg.Judge.ChallengeURL == "" || cfg.Judge.JudgmentURL == "") {
		return nil, fmt.Errorf("judge enabled but challenge_url/judgment_url are not set")
	}

	return &cfg, nil
}
