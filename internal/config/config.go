package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           int
	AllowOrigins   []string
	LogLevel       string
	MaxUploadMB    int
	LogFile        string
	RefFile        string
	RefS3          S3Config
	IndexCacheSize int
	MatchWorkers   int
}

// S3Config — справочник в бакете вместо локального файла (если задан endpoint).
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
}

func (s S3Config) Enabled() bool { return strings.TrimSpace(s.Endpoint) != "" }

func Load() Config {
	_ = godotenv.Load()

	port := atoi(getenv("PORT", "8082"), 8082)
	mb := atoi(getenv("MAX_UPLOAD_MB", "64"), 64)
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/sku-matcher.log"),
		RefFile:      getenv("REF_FILE", "sku_model_list.xlsx"),
		RefS3: S3Config{
			Endpoint:  os.Getenv("REF_S3_ENDPOINT"),
			Region:    getenv("REF_S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("REF_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("REF_S3_SECRET_KEY"),
			Bucket:    os.Getenv("REF_S3_BUCKET"),
			Object:    getenv("REF_S3_OBJECT", "sku_model_list.xlsx"),
			UseSSL:    toBool(os.Getenv("REF_S3_USE_SSL"), true),
		},
		IndexCacheSize: atoi(getenv("INDEX_CACHE_SIZE", "8"), 8),
		MatchWorkers:   atoi(getenv("MATCH_WORKERS", ""), runtime.NumCPU()),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
