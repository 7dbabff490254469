package utils

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	VGMDBBaseURL  string
	FetchTimeout  time.Duration
	RedisAddr     string
	CacheDisabled bool
	CacheTTL      time.Duration
}

func LoadConfig() Config {
	addr := os.Getenv("VGMHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	base := os.Getenv("VGMHUB_VGMDB_BASE_URL")
	if base == "" {
		base = "https://vgmdb.net"
	}

	redisAddr := os.Getenv("VGMHUB_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	return Config{
		Addr:          addr,
		VGMDBBaseURL:  base,
		FetchTimeout:  time.Duration(envInt("VGMHUB_FETCH_TIMEOUT_SEC", 15)) * time.Second,
		RedisAddr:     redisAddr,
		CacheDisabled: os.Getenv("VGMHUB_CACHE_DISABLED") == "1",
		CacheTTL:      time.Duration(envInt("VGMHUB_CACHE_TTL_MIN", 30)) * time.Minute,
	}
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
