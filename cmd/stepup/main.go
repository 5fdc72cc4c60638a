package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stepup-idm/stepup-idm/pkg/authflow"
	"github.com/stepup-idm/stepup-idm/pkg/authflow/api"
	"github.com/stepup-idm/stepup-idm/pkg/config"
	"github.com/stepup-idm/stepup-idm/pkg/credstage"
	"github.com/stepup-idm/stepup-idm/pkg/device"
	"github.com/stepup-idm/stepup-idm/pkg/encryption"
	"github.com/stepup-idm/stepup-idm/pkg/login"
	"github.com/stepup-idm/stepup-idm/pkg/notification"
	"github.com/stepup-idm/stepup-idm/pkg/session"
	"github.com/stepup-idm/stepup-idm/pkg/token"
	"github.com/stepup-idm/stepup-idm/pkg/twofa"
)

type ServerConfig struct {
	Host string `env:"HOST" env-default:"localhost"`
	Port uint16 `env:"PORT" env-default:"4000"`
}

type DbConfig struct {
	Persistence string `env:"PERSISTENCE" env-default:"inmem"`
	DataDir     string `env:"DATA_DIR" env-default:"./data"`
	PgHost      string `env:"PG_HOST" env-default:"localhost"`
	PgPort      uint16 `env:"PG_PORT" env-default:"5432"`
	PgDatabase  string `env:"PG_DATABASE" env-default:"stepup_db"`
	PgUser      string `env:"PG_USER" env-default:"stepup"`
	PgPassword  string `env:"PG_PASSWORD" env-default:"pwd"`
}

func (d DbConfig) toDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.PgUser, d.PgPassword, d.PgHost, d.PgPort, d.PgDatabase)
}

type JwtConfig struct {
	JwtSecret    string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"false"`
}

type SMTPConfig struct {
	Enabled  bool   `env:"SMTP_ENABLED" env-default:"false"`
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
}

type DemoConfig struct {
	SeedDemoUser bool `env:"SEED_DEMO_USER" env-default:"false"`
}

type Config struct {
	ServerConfig ServerConfig
	DbConfig     DbConfig
	JwtConfig    JwtConfig
	SMTPConfig   SMTPConfig
	DemoConfig   DemoConfig
}

func main() {
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	authCfg := config.NewAuthFlowConfigFromEnv()
	sessionCfg := config.NewSessionConfigFromEnv()
	if err := authCfg.Validate(); err != nil {
		slog.Error("Invalid auth flow config", "err", err)
		os.Exit(-1)
	}

	// Session store
	sessionTTL, err := sessionCfg.ParseTTL()
	if err != nil {
		slog.Error("Invalid session TTL", "ttl", sessionCfg.TTL, "err", err)
		os.Exit(-1)
	}
	storeConfig := session.StoreConfig{TTL: sessionTTL}
	if sessionCfg.Backend == "redis" {
		storeConfig.RedisClient = redis.NewClient(&redis.Options{
			Addr:     sessionCfg.RedisAddr,
			Password: sessionCfg.RedisPassword,
			DB:       sessionCfg.RedisDB,
		})
	}
	sessionStore, err := session.NewStore(sessionCfg.Backend, storeConfig)
	if err != nil {
		slog.Error("Failed creating session store", "backend", sessionCfg.Backend, "err", err)
		os.Exit(-1)
	}

	// Credential staging
	encryptionKey, err := authCfg.ResolveEncryptionKey()
	if err != nil {
		slog.Error("Failed resolving encryption key", "err", err)
		os.Exit(-1)
	}
	encryptionService, err := encryption.NewEncryptionService(encryptionKey)
	if err != nil {
		slog.Error("Failed creating encryption service", "err", err)
		os.Exit(-1)
	}
	staging, err := credstage.NewService(sessionStore, encryptionService)
	if err != nil {
		slog.Error("Failed creating credential staging service", "err", err)
		os.Exit(-1)
	}

	// User store
	repoConfig := login.RepositoryConfig{DataDir: cfg.DbConfig.DataDir}
	if cfg.DbConfig.Persistence == "postgres" || cfg.DbConfig.Persistence == "postgresql" {
		pool, err := pgxpool.New(context.Background(), cfg.DbConfig.toDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.DbConfig.PgDatabase, "host", cfg.DbConfig.PgHost, "err", err)
			os.Exit(-1)
		}
		repoConfig.Pool = pool
	}
	repository, err := login.NewLoginRepository(cfg.DbConfig.Persistence, repoConfig)
	if err != nil {
		slog.Error("Failed creating login repository", "persistence", cfg.DbConfig.Persistence, "err", err)
		os.Exit(-1)
	}
	loginService := login.NewLoginService(repository)

	if cfg.DemoConfig.SeedDemoUser {
		seedDemoUser(loginService)
	}

	// Two-step flow
	verifier, err := twofa.NewVerifier(twofa.NewTotpVerifier())
	if err != nil {
		slog.Error("Failed creating verifier", "err", err)
		os.Exit(-1)
	}
	flowOptions := []authflow.FlowOption{
		authflow.WithRememberEnabled(authCfg.RememberEnabled),
		authflow.WithVerifyAction(authflow.VerifyAction{
			Prefix:     authCfg.VerifyPrefix,
			Controller: authCfg.VerifyController,
			Action:     authCfg.VerifyAction,
		}),
	}
	if authCfg.BaseURL != "" {
		flowOptions = append(flowOptions, authflow.WithBaseURL(authCfg.BaseURL))
	}
	if cfg.SMTPConfig.Enabled {
		notifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     cfg.SMTPConfig.Host,
			Port:     cfg.SMTPConfig.Port,
			TLS:      cfg.SMTPConfig.TLS,
			Username: cfg.SMTPConfig.Username,
			Password: cfg.SMTPConfig.Password,
			From:     cfg.SMTPConfig.From,
		})
		if err != nil {
			slog.Error("Failed creating email notifier", "err", err)
			os.Exit(-1)
		}
		flowOptions = append(flowOptions, authflow.WithNotifier(notifier))
	}
	flow, err := authflow.NewFlow(loginService, staging, verifier, flowOptions...)
	if err != nil {
		slog.Error("Failed creating auth flow", "err", err)
		os.Exit(-1)
	}

	// HTTP plumbing
	cookieExpires, err := authCfg.ParseCookieExpires()
	if err != nil {
		slog.Error("Invalid cookie expires", "expires", authCfg.CookieExpires, "err", err)
		os.Exit(-1)
	}
	devices := device.NewStore(device.StoreOptions{
		CookieName: authCfg.CookieName,
		HttpOnly:   authCfg.CookieHTTPOnly,
		Secure:     authCfg.CookieSecure,
		Expiry:     cookieExpires,
	})
	sessions := session.NewManager(sessionCfg.CookieName, authCfg.CookieSecure)
	tokens, err := token.NewService(cfg.JwtConfig.JwtSecret,
		token.WithSecureCookie(cfg.JwtConfig.CookieSecure))
	if err != nil {
		slog.Error("Failed creating token service", "err", err)
		os.Exit(-1)
	}

	handle := api.NewHandle(flow, staging, sessions, session.NewFlash(sessionStore), devices, tokens)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "OK")
	})

	handle.Routes(r)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.JwtSecret), nil)
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(tokenAuth, jwtauth.TokenFromHeader, tokenFromAccessCookie))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			render.JSON(w, r, map[string]any{
				"id":       claims["sub"],
				"username": claims["username"],
			})
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerConfig.Host, cfg.ServerConfig.Port)
	slog.Info("Starting server", "addr", addr, "persistence", cfg.DbConfig.Persistence, "sessionBackend", sessionCfg.Backend)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}

// tokenFromAccessCookie reads the JWT from the access token cookie
func tokenFromAccessCookie(r *http.Request) string {
	cookie, err := r.Cookie(token.AccessTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// seedDemoUser creates a demo account with a fresh second-factor secret and
// prints the secret so codes can be generated against it.
func seedDemoUser(loginService *login.LoginService) {
	secret := twofa.GenerateTotpSecret()
	user, err := loginService.RegisterUser(context.Background(), login.RegisterUserParams{
		Username: "demo",
		Password: "pwd",
		Email:    "demo@example.com",
		Secret:   secret,
	})
	if err != nil {
		slog.Warn("Failed seeding demo user", "err", err)
		return
	}
	slog.Info("Seeded demo user", "username", user.Username, "totpSecret", secret)
}
