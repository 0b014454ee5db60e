package internal

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// environment is the layered configuration source of an App.
type environment struct {
	mu     sync.RWMutex
	values map[string]string
	osEnv  bool
}

func newEnvironment() *environment {
	return &environment{values: make(map[string]string), osEnv: true}
}

func (e *environment) LookupEnv(key string) (string, bool) {
	e.mu.RLock()
	v, ok := e.values[key]
	useOS := e.osEnv
	e.mu.RUnlock()

	if ok {
		return v, true
	}
	if useOS {
		return os.LookupEnv(key)
	}
	return "", false
}

func (e *environment) merge(values map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps.Copy(e.values, values)
}

// readYAMLConfig reads a flat YAML mapping of keys to scalar values.
//
//	GRAPHDB_URI: bolt://db:7687
//	GRAPHDB_MAX_CONN_POOL_SIZE: 50
func readYAMLConfig(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = x
		case int:
			out[k] = strconv.Itoa(x)
		case bool:
			out[k] = strconv.FormatBool(x)
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("config key %q: unsupported value of type %T", k, v)
		}
	}
	return out, nil
}

// WithConfig sets explicit configuration values.
// They take precedence over the process environment.
//
// Example:
//
//	neoforge.New(
//	    neoforge.WithConfig(map[string]string{
//	        "GRAPHDB_URI": "bolt://graph.internal:7687",
//	    }),
//	)
func WithConfig(values map[string]string) Option {
	return func(a *App) {
		a.env.merge(values)
	}
}

// WithConfigFile loads configuration values from a flat YAML file.
// Panics if the file cannot be read or parsed.
func WithConfigFile(path string) Option {
	return func(a *App) {
		values, err := readYAMLConfig(path)
		if err != nil {
			panic(fmt.Sprintf("config file %s: %v", path, err))
		}
		a.env.merge(values)
	}
}

// WithDotenv loads configuration values from .env files.
// Missing files are skipped. A malformed file panics.
// Later files override earlier ones.
func WithDotenv(paths ...string) Option {
	return func(a *App) {
		if len(paths) == 0 {
			paths = []string{".env"}
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				a.logger.Debug("dotenv file skipped", "path", p, "error", err)
				continue
			}
			values, err := godotenv.Read(p)
			if err != nil {
				panic(fmt.Sprintf("dotenv %s: %v", p, err))
			}
			a.env.merge(values)
		}
	}
}

// WithoutOSEnv stops LookupEnv from falling back to the process environment.
// Useful for tests and for running several isolated apps in one process.
func WithoutOSEnv() Option {
	return func(a *App) {
		a.env.mu.Lock()
		a.env.osEnv = false
		a.env.mu.Unlock()
	}
}
