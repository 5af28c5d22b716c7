package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DB struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

// Ticket controls the receipt-printing endpoint. Mode selects what the
// handler does with the rendered HTML: "html" returns it to the caller,
// "relay" posts it to the local print daemon at PrintURL.
type Ticket struct {
	Mode           string
	PrintURL       string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

type Config struct {
	Addr string
	DB   DB

	// OnlineWindow is how recently a client must have been seen to count
	// as active on the dashboard.
	OnlineWindow time.Duration

	Ticket Ticket

	// Debug enables the ?action=debug connection dump. Leave off in
	// production.
	Debug bool
}

// Load reads the YAML config file at path and overlays the MYSQL*
// environment variables the deployment platform injects. An empty path
// runs on defaults and env alone; a path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "railway")
	v.SetDefault("dashboard.online_window", 10*time.Minute)
	v.SetDefault("ticket.mode", "relay")
	v.SetDefault("ticket.print_url", "http://localhost:5160/print")
	v.SetDefault("ticket.connect_timeout", 5*time.Second)
	v.SetDefault("ticket.request_timeout", 10*time.Second)

	_ = v.BindEnv("server.addr", "SERVER_ADDR")
	_ = v.BindEnv("server.debug", "API_DEBUG")
	_ = v.BindEnv("db.host", "MYSQLHOST")
	_ = v.BindEnv("db.port", "MYSQLPORT")
	_ = v.BindEnv("db.user", "MYSQLUSER")
	_ = v.BindEnv("db.pass", "MYSQLPASSWORD")
	_ = v.BindEnv("db.name", "MYSQLDATABASE")
	_ = v.BindEnv("ticket.mode", "TICKET_MODE")
	_ = v.BindEnv("ticket.print_url", "PRINT_SERVICE_URL")

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Addr: v.GetString("server.addr"),
		DB: DB{
			Host: v.GetString("db.host"),
			Port: v.GetInt("db.port"),
			User: v.GetString("db.user"),
			Pass: v.GetString("db.pass"),
			Name: v.GetString("db.name"),
		},
		OnlineWindow: v.GetDuration("dashboard.online_window"),
		Ticket: Ticket{
			Mode:           v.GetString("ticket.mode"),
			PrintURL:       v.GetString("ticket.print_url"),
			ConnectTimeout: v.GetDuration("ticket.connect_timeout"),
			RequestTimeout: v.GetDuration("ticket.request_timeout"),
		},
		Debug: v.GetBool("server.debug"),
	}
	if cfg.OnlineWindow <= 0 {
		cfg.OnlineWindow = 10 * time.Minute
	}
	if cfg.Ticket.Mode != "html" {
		cfg.Ticket.Mode = "relay"
	}
	return cfg, nil
}
