package config

import "time"

// SysMonitorConfig for the system monitor dashboard
type SysMonitorConfig struct {
	RefreshInterval time.Duration
	Logging         LoggingConfig
}

// BrowserConfig for the file browser
type BrowserConfig struct {
	Root            string
	MaxEntries      int
	MaxPreviewBytes int64
	Logging         LoggingConfig
}

func LoadSysMonitor() *SysMonitorConfig {
	return &SysMonitorConfig{
		RefreshInterval: getDurationEnv("SYSMON_REFRESH_INTERVAL", time.Second),
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "sysmonitor.log"),
		},
	}
}

func LoadBrowser() *BrowserConfig {
	return &BrowserConfig{
		Root:            getEnv("BROWSER_ROOT", "."),
		MaxEntries:      getIntEnv("BROWSER_MAX_ENTRIES", 50),
		MaxPreviewBytes: int64(getIntEnv("BROWSER_MAX_PREVIEW_BYTES", 4<<20)),
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "sdbrowser.log"),
		},
	}
}

// WifiScannerConfig for the WiFi scanner
type WifiScannerConfig struct {
	Interface   string
	ScanTimeout time.Duration
	MaxNetworks int
	Logging     LoggingConfig
}

// TouchTestConfig for the touch test
type TouchTestConfig struct {
	Logging LoggingConfig
}

func LoadWifiScanner() *WifiScannerConfig {
	return &WifiScannerConfig{
		Interface:   getEnv("WIFI_INTERFACE", ""),
		ScanTimeout: getDurationEnv("WIFI_SCAN_TIMEOUT", 10*time.Second),
		MaxNetworks: getIntEnv("WIFI_MAX_NETWORKS", 30),
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "wifiscanner.log"),
		},
	}
}

func LoadTouchTest() *TouchTestConfig {
	return &TouchTestConfig{
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "touchtest.log"),
		},
	}
}
