package config

// Config contains all application settings. Collection and transfer
// intervals are in seconds; an interval of zero or less disables the
// component.
type Config struct {
	DatabasePath string `mapstructure:"DATABASE_PATH" yaml:"database_path"`
	PlatformDir  string `mapstructure:"PLATFORM_DIR" yaml:"platform_dir"`

	ServerURL   string `mapstructure:"SERVER_URL" yaml:"server_url"`
	CertFile    string `mapstructure:"CERT_FILE" yaml:"cert_file"`
	DeviceID    string `mapstructure:"DEVICE_ID" yaml:"device_id"`
	HTTPTimeout int    `mapstructure:"HTTP_TIMEOUT" yaml:"http_timeout"`

	TransferInterval       int `mapstructure:"TRANSFER_INTERVAL" yaml:"transfer_interval"`
	CallLogInterval        int `mapstructure:"CALL_LOG_INTERVAL" yaml:"call_log_interval"`
	SMSInterval            int `mapstructure:"SMS_INTERVAL" yaml:"sms_interval"`
	BrowserHistoryInterval int `mapstructure:"BROWSER_HISTORY_INTERVAL" yaml:"browser_history_interval"`
	ContactsInterval       int `mapstructure:"CONTACTS_INTERVAL" yaml:"contacts_interval"`
	CalendarInterval       int `mapstructure:"CALENDAR_INTERVAL" yaml:"calendar_interval"`

	// Collector settings, used by the bundled development collector.
	CollectorAddr     string `mapstructure:"COLLECTOR_ADDR" yaml:"collector_addr"`
	CollectorSpoolDir string `mapstructure:"COLLECTOR_SPOOL_DIR" yaml:"collector_spool_dir"`
	CollectorCertFile string `mapstructure:"COLLECTOR_CERT_FILE" yaml:"collector_cert_file"`
	CollectorKeyFile  string `mapstructure:"COLLECTOR_KEY_FILE" yaml:"collector_key_file"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}
