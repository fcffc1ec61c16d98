package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"imf-reader/internal/logging"
	"imf-reader/internal/transport"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Defaults for the package reader limits.
const (
	DefaultMaxReadSize = int64(transport.DefaultMaxReadSize)
	DefaultMaxAssets   = 1 << 20
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all application configuration
type Config struct {
	// Package to serve
	CPLPath      string
	AssetMapPath string
	MaxReadSize  int64
	MaxAssets    int
	StrictPaths  bool

	// Server
	Port            string
	MetricsEnabled  bool
	LogHealthChecks bool
	CatalogPath     string
	VerifyWorkers   int

	// Transport
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Region      string
	S3UseSSL      bool
	HTTPUserAgent string
	HTTPTimeout   time.Duration
}

// LoadEnvFiles loads KEY=value pairs from the given .env files into the
// process environment without overriding variables that are already set.
// Missing files are skipped. With no arguments ".env" is tried.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv reads the configuration from environment variables without any
// startup logging. Invalid numeric values fall back to their defaults.
func FromEnv() *Config {
	return &Config{
		CPLPath:         getEnv("IMF_CPL", ""),
		AssetMapPath:    getEnv("IMF_ASSETMAP", ""),
		MaxReadSize:     getEnvInt64("IMF_MAX_READ_SIZE", DefaultMaxReadSize),
		MaxAssets:       int(getEnvInt64("IMF_MAX_ASSETS", DefaultMaxAssets)),
		StrictPaths:     getEnvBool("IMF_STRICT_PATHS", false),
		Port:            getEnv("PORT", "8080"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
		CatalogPath:     getEnv("CATALOG_PATH", ""),
		VerifyWorkers:   int(getEnvInt64("VERIFY_WORKERS", 0)),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3Region:        getEnv("S3_REGION", ""),
		S3UseSSL:        getEnvBool("S3_USE_SSL", true),
		HTTPUserAgent:   getEnv("HTTP_USER_AGENT", "imf-reader/"+Version),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
	}
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	if err := LoadEnvFiles(); err != nil {
		logging.Warn("  %v", err)
	}

	config := FromEnv()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  IMF_CPL:             %s", config.CPLPath)
	logging.Info("  IMF_ASSETMAP:        %s", orDefault(config.AssetMapPath, "(sibling ASSETMAP.xml)"))
	logging.Info("  IMF_MAX_READ_SIZE:   %d", config.MaxReadSize)
	logging.Info("  IMF_MAX_ASSETS:      %d", config.MaxAssets)
	logging.Info("  IMF_STRICT_PATHS:    %v", config.StrictPaths)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  CATALOG_PATH:        %s", orDefault(config.CatalogPath, "(disabled)"))
	logging.Info("  S3_ENDPOINT:         %s", orDefault(config.S3Endpoint, "(unset)"))
	logging.Info("  HTTP_TIMEOUT:        %v", config.HTTPTimeout)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if config.CPLPath == "" {
		return nil, fmt.Errorf("IMF_CPL is required")
	}
	if config.MaxReadSize <= 0 {
		return nil, fmt.Errorf("IMF_MAX_READ_SIZE must be positive, got %d", config.MaxReadSize)
	}
	if config.MaxAssets <= 0 {
		return nil, fmt.Errorf("IMF_MAX_ASSETS must be positive, got %d", config.MaxAssets)
	}

	if config.CatalogPath != "" {
		abs, err := filepath.Abs(config.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
		}
		config.CatalogPath = abs

		dir := filepath.Dir(abs)
		if err := ensureDirectory(dir, "catalog"); err != nil {
			return nil, fmt.Errorf("catalog directory error: %w", err)
		}
		if err := testWriteAccess(dir); err != nil {
			return nil, fmt.Errorf("catalog directory is not writable: %w", err)
		}
		logging.Info("  [OK] Catalog directory is writable")
	}

	return config, nil
}

// TransportOptions returns the transport option dictionary for this
// configuration.
func (c *Config) TransportOptions() transport.Options {
	values := map[string]string{
		transport.OptUserAgent: c.HTTPUserAgent,
		transport.OptTimeout:   c.HTTPTimeout.String(),
		transport.OptS3UseSSL:  strconv.FormatBool(c.S3UseSSL),
	}
	if c.S3Endpoint != "" {
		values[transport.OptS3Endpoint] = c.S3Endpoint
		values[transport.OptS3AccessKey] = c.S3AccessKey
		values[transport.OptS3SecretKey] = c.S3SecretKey
		values[transport.OptS3Region] = c.S3Region
	}
	return transport.Options{Values: values}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// LogCatalogInit logs catalog initialization
func LogCatalogInit(path string, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Catalog %s initialized in %v", path, duration)
}

// LogPackageLoaded logs the package that will be served
func LogPackageLoaded(cplID string, title string, assets int, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PACKAGE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  CPL:      urn:uuid:%s", cplID)
	logging.Info("  Title:    %s", title)
	logging.Info("  Assets:   %d", assets)
	logging.Info("  [OK] Package opened in %v", duration)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    API:           http://0.0.0.0:%s/api", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____  ________     ____                 __
   /  _/ /  |/  / __/ / __ \___  ____ _____/ /__  _____
   / /  / /|_/ / /_  / /_/ / _ \/ __ '/ __  / _ \/ ___/
 _/ /  / /  / / __/ / _, _/  __/ /_/ / /_/ /  __/ /
/___/ /_/  /_/_/   /_/ |_|\___/\__,_/\__,_/\___/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
