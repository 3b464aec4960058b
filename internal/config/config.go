package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const EnvPrefix = "SCHEDULE_"

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Frontend Frontend `koanf:"frontend"`
	Database Database `koanf:"db"`
	Schedule Schedule `koanf:"schedule"`
	Mail     Mail     `koanf:"mail"`
	Contact  Contact  `koanf:"contact"`
	Auth     Auth     `koanf:"auth"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Database struct {
	Driver string `koanf:"driver"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
	// Path is the database file used by the sqlite driver.
	Path string `koanf:"path"`
}

type Schedule struct {
	// Timezone all "today"/"past" decisions are made in.
	Timezone     string `koanf:"timezone"`
	FullDayHours int    `koanf:"fulldayhours"`
	MaxRepeat    int    `koanf:"maxrepeat"`
}

type Mail struct {
	Endpoint       string `koanf:"endpoint"`
	Recipient      string `koanf:"recipient"`
	Sender         string `koanf:"sender"`
	SenderName     string `koanf:"sendername"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

// Contact limits the contact form per client. X-Forwarded-For is only honoured when the
// connection comes from one of TrustedProxies.
type Contact struct {
	RatePerSecond  float64  `koanf:"ratepersecond"`
	Burst          int      `koanf:"burst"`
	TrustedProxies []string `koanf:"trustedproxies"`
}

// Auth protects the mutating events endpoints when Secret is not empty.
type Auth struct {
	Secret string `koanf:"secret"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Frontend: Frontend{
			Enabled: true,
			Dir:     "frontend",
		},
		Database: Database{
			Driver: DriverPostgres,
			Host:   "localhost",
			Port:   5432,
			User:   "schedule",
			Pass:   "",
			Name:   "schedule",
			Schema: "public",
			Path:   "schedule.db",
		},
		Schedule: Schedule{
			Timezone:     "Asia/Manila",
			FullDayHours: 8,
			MaxRepeat:    30,
		},
		Mail: Mail{
			Endpoint:       "https://api.mailchannels.net/tx/v1/send",
			Recipient:      "contact@scheinerik.dev",
			Sender:         "contact@scheinerik.dev",
			SenderName:     "Website Contact Form",
			TimeoutSeconds: 10,
		},
		Contact: Contact{
			RatePerSecond: 0.2,
			Burst:         3,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
