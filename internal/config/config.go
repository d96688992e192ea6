package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string
	OutputDir    string
	DBPath       string
	LocationFile string
	HomeCountry  string
	SKUMapPath   string
	ExportXLSX   bool

	ShipStationBaseURL   string
	ShipStationAPIKey    string
	ShipStationSecret    string
	ShipStationRateRPS   int
	ShipStationTimeoutMs int
	ShipStationPageSize  int
	RefreshWaitSec       int

	WatchIntervalSec int
	WatchStores      []string

	StoreAmazonUSA  string
	StoreAmazonCAN  string
	StoreEbay       string
	StoreBuckeroo   string
	StorePremShirts string
	StoreNSOTD      string

	LogLevel  string
	LogFormat string
	LogOutput string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))
	outputDir := getEnv("OUTPUT_DIR", filepath.Join(cwd, "out"))

	cfg := Config{
		DataDir:      dataDir,
		OutputDir:    outputDir,
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "runs.db")),
		LocationFile: getEnv("LOCATION_FILE", filepath.Join(outputDir, "world_map.html")),
		HomeCountry:  strings.ToUpper(getEnv("HOME_COUNTRY", "US")),
		SKUMapPath:   getEnv("SKU_MAP_PATH", filepath.Join(cwd, "configs", "sku_map.yaml")),
		ExportXLSX:   getEnvBool("EXPORT_XLSX", false),

		ShipStationBaseURL:   getEnv("SHIPSTATION_API_BASE_URL", "https://ssapi.shipstation.com"),
		ShipStationAPIKey:    getEnv("SHIPSTATION_API_KEY", ""),
		ShipStationSecret:    getEnv("SHIPSTATION_API_SECRET", ""),
		ShipStationRateRPS:   getEnvInt("SHIPSTATION_RATE_LIMIT_RPS", 1),
		ShipStationTimeoutMs: getEnvInt("SHIPSTATION_TIMEOUT_MS", 30000),
		ShipStationPageSize:  getEnvInt("SHIPSTATION_PAGE_SIZE", 500),
		RefreshWaitSec:       getEnvInt("REFRESH_WAIT_SEC", 120),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 900),
		WatchStores:      getEnvList("WATCH_STORES"),

		StoreAmazonUSA:  getEnv("STORE_AMAZON_USA", ""),
		StoreAmazonCAN:  getEnv("STORE_AMAZON_CAN", ""),
		StoreEbay:       getEnv("STORE_EBAY", ""),
		StoreBuckeroo:   getEnv("STORE_BUCKEROO", ""),
		StorePremShirts: getEnv("STORE_PREM_SHIRTS", ""),
		StoreNSOTD:      getEnv("STORE_NSOTD", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogOutput: getEnv("LOG_OUTPUT", "stderr"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// StoreIDs returns every configured ShipStation store id, skipping blanks.
func (c Config) StoreIDs() []string {
	all := []string{c.StoreAmazonUSA, c.StoreAmazonCAN, c.StoreEbay, c.StorePremShirts, c.StoreNSOTD, c.StoreBuckeroo}
	out := make([]string, 0, len(all))
	for _, id := range all {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string) []string {
	out := []string{}
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
