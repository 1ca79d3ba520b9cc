package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SinkFile   = "file"
	SinkSQLite = "sqlite"
)

type Config struct {
	Addr               string
	Sink               string
	DataFile           string
	DBUrl              string
	CorsOrigins        []string
	IPHeader           string
	TrustedProxyHeader string
	MaxBody            int64
	RateLimit          float64
	RateBurst          int
	Debug              bool
}

// ParseFlags reads an optional .env file, then the command line.
// Environment variables provide defaults, flags override them.
func ParseFlags() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return Parse(os.Args[1:])
}

func Parse(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("survey-intake", flag.ContinueOnError)

	var host string
	fs.StringVar(&host, "host", envStr("SURVEY_HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", envUint("SURVEY_PORT", 5000), "listen port number")
	fs.StringVar(&cfg.Sink, "sink", envStr("SURVEY_SINK", SinkFile), "storage sink: file or sqlite")
	fs.StringVar(&cfg.DataFile, "data-file", envStr("SURVEY_DATA_FILE", "data/survey.ndjson"), "path to the append-only JSON lines file")
	fs.StringVar(&cfg.DBUrl, "db-url", envStr("SURVEY_DB_URL", "survey.sqlite"), "path to SQLite3 DB file (sqlite sink)")
	var origins string
	fs.StringVar(&origins, "cors-origins", envStr("SURVEY_CORS_ORIGINS", "*"), "comma separated origins allowed on /v1")
	fs.StringVar(&cfg.IPHeader, "ip-header", envStr("SURVEY_IP_HEADER", "X-Forwarded-For"), "header carrying the client address set by a proxy")
	fs.StringVar(&cfg.TrustedProxyHeader, "trusted-proxy-header", envStr("SURVEY_TRUSTED_PROXY_HEADER", ""), "header set by a trusted proxy, used to key rate limiting")
	fs.Int64Var(&cfg.MaxBody, "max-body", int64(envUint("SURVEY_MAX_BODY", 64<<10)), "max request body in bytes")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", envFloat("SURVEY_RATE_LIMIT", 0), "submissions per second per client IP (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", int(envUint("SURVEY_RATE_BURST", 10)), "rate limiter burst size")
	fs.BoolVar(&cfg.Debug, "debug", envBool("SURVEY_DEBUG", false), "log at DEBUG level")

	if err = fs.Parse(args); err != nil {
		return
	}

	if port == 0 || port > 65535 {
		err = fmt.Errorf("invalid port %d", port)
		return
	}
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.CorsOrigins = splitList(origins)

	switch cfg.Sink {
	case SinkFile:
		if cfg.DataFile == "" {
			err = errors.New("missing parameter -data-file")
		}
	case SinkSQLite:
		if cfg.DBUrl == "" {
			err = errors.New("missing parameter -db-url")
		}
	default:
		err = fmt.Errorf("unknown sink %q", cfg.Sink)
	}
	if err != nil {
		return
	}

	if cfg.MaxBody <= 0 {
		err = errors.New("-max-body must be positive")
	} else if cfg.RateLimit < 0 {
		err = errors.New("-rate-limit must not be negative")
	} else if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		err = errors.New("-rate-burst must be at least 1")
	}
	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envUint(k string, d uint) uint {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseUint(v, 10, 64); err == nil {
		return uint(n)
	}
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}
