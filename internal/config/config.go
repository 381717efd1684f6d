package config

import "net/http/cookiejar"

type Config struct {
	Scrape struct {
		Url                    string `json:"url"`
		MaxPages               int    `json:"max_pages"`
		OutputFormat           string `json:"output_format"`
		OutputDir              string `json:"output_dir"`
		DelaySeconds           int    `json:"delay_seconds"`
		PageLoadTimeoutSeconds int    `json:"page_load_timeout_seconds"`
		ModalTimeoutSeconds    int    `json:"modal_timeout_seconds"`
		RetryMaxAttempts       int    `json:"retry_max_attempts"`
		RetryBaseDelayMs       int    `json:"retry_base_delay_ms"`
		RetryBackoffFactor     float64 `json:"retry_backoff_factor"`
	} `json:"scrape"`

	Api struct {
		Endpoint string `json:"endpoint"`
		Limit    int    `json:"limit"`
	} `json:"api"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
		Leakless             bool   `json:"leakless"`
		Bin                  string `json:"bin"`
	} `json:"rod"`

	Chromedp struct {
		LifeTime             int    `json:"life_time"`
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
	} `json:"chromedp"`

	Colly struct {
		AllowedDomains   []string           `json:"allowed_domains"`
		MaxDepth         int                `json:"max_depth"`
		UserAgent        string             `json:"user_agent"`
		IgnoreRobotsTxt  bool               `json:"ignore_robots_txt"`
		Async            bool               `json:"async"`
		Delay            int                `json:"delay"`
		RandomDelay      int                `json:"random_delay"`
		EnableCookieJar  bool               `json:"enable_cookie_jar"`
		CookieJarOptions *cookiejar.Options `json:"cookie_jar_options"`
	} `json:"colly"`

	Elasticsearch struct {
		Enabled  bool   `json:"enabled"`
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
	} `json:"elasticsearch"`
}
