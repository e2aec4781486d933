package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Mail    Mail
	Webhook Webhook `envPrefix:"WEBHOOK_"`
	Store   Store
}

type Mail struct {
	From     string        `env:"EMAIL_FROM"`
	Password string        `env:"EMAIL_PASS"`
	SMTPHost string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort int           `env:"SMTP_PORT" envDefault:"587"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"` // 0 keeps the mail library default
}

type Webhook struct {
	PaidURL string        `env:"PAID"`
	FreeURL string        `env:"FREE"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Store struct {
	SubmissionTTL time.Duration `env:"SUBMISSION_TTL" envDefault:"1h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`
}
