package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/daniacca/bondsim/internal/bonding"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr           string
	DefaultSimID   string
	SceneFile      string
	JournalDB      string
	TickIntervalMs int
	LogLevel       string
	EnvFile        string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

func serverConfigResolvers() []configResolver {
	return []configResolver{
		{
			flagName:    "addr",
			envVarName:  "BONDSIM_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "sim-id",
			envVarName:  "BONDSIM_SIM_ID",
			defaultVal:  "default",
			description: "simulation ID for the startup scene",
			setter:      func(c *ServerConfig, v string) { c.DefaultSimID = v },
		},
		{
			flagName:    "scene-file",
			envVarName:  "BONDSIM_SCENE_FILE",
			defaultVal:  "",
			description: "optional path to a JSON scene file to load at startup",
			setter:      func(c *ServerConfig, v string) { c.SceneFile = v },
		},
		{
			flagName:    "journal-db",
			envVarName:  "BONDSIM_JOURNAL_DB",
			defaultVal:  "",
			description: "optional SQLite file journaling every bond event",
			setter:      func(c *ServerConfig, v string) { c.JournalDB = v },
		},
		{
			flagName:    "tick-interval-ms",
			envVarName:  "BONDSIM_TICK_INTERVAL_MS",
			defaultVal:  "0",
			description: "auto-run the startup scene at this interval in milliseconds; 0 leaves it stopped",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.Atoi(v); err == nil && val >= 0 {
					c.TickIntervalMs = val
				} else {
					log.Printf("Invalid value for tick-interval-ms: %s, using default 0", v)
					c.TickIntervalMs = 0
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "BONDSIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
		{
			flagName:    "env-file",
			envVarName:  "BONDSIM_ENV_FILE",
			defaultVal:  ".env",
			description: "dotenv file read before resolving environment variables",
			setter:      func(c *ServerConfig, v string) { c.EnvFile = v },
		},
	}
}

// loadServerConfig resolves configuration from CLI flags, environment
// variables and defaults, in that order. The dotenv file is loaded before any
// environment lookup; variables already set in the process win over it.
func loadServerConfig(fs *flag.FlagSet, args []string) (ServerConfig, error) {
	resolvers := serverConfigResolvers()

	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = fs.String(resolver.flagName, "", resolver.description)
	}

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	envFile := *flagVars["env-file"]
	if envFile == "" {
		envFile = os.Getenv("BONDSIM_ENV_FILE")
	}
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load env file %s: %v", envFile, err)
	}

	cfg := ServerConfig{}
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg, nil
}

// loadSceneFromFile reads and validates a scene configuration.
func loadSceneFromFile(path string) (bonding.SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bonding.SceneConfig{}, err
	}

	var cfg bonding.SceneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return bonding.SceneConfig{}, err
	}

	if err := bonding.ValidateSceneConfig(cfg); err != nil {
		return bonding.SceneConfig{}, err
	}

	return cfg, nil
}
