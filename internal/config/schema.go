package config

// Config is the full taskme configuration. Secrets (Twilio and OpenAI
// credentials) are never stored here; they come from the environment.
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// HTTP server settings
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Morning briefing settings
	Briefing BriefingConfig `yaml:"briefing" mapstructure:"briefing"`

	// Task store settings
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Twilio phone numbers
	Twilio TwilioConfig `yaml:"twilio" mapstructure:"twilio"`

	// Extraction model settings
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// PublicURL is the externally reachable base URL Twilio posts
	// webhook turns to (e.g. an ngrok or deployed hostname).
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

// BriefingConfig configures the daily outbound call.
type BriefingConfig struct {
	Hour       int    `yaml:"hour" mapstructure:"hour"`
	Minute     int    `yaml:"minute" mapstructure:"minute"`
	Timezone   string `yaml:"timezone" mapstructure:"timezone"`
	WindowDays int    `yaml:"window_days" mapstructure:"window_days"`
}

// StoreConfig selects and configures the task store backend.
type StoreConfig struct {
	// Backend is "sheets" or "sqlite".
	Backend string       `yaml:"backend" mapstructure:"backend"`
	Sheets  SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	SQLite  SQLiteConfig `yaml:"sqlite" mapstructure:"sqlite"`
}

// SheetsConfig configures the Google Sheets backend.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Range           string `yaml:"range" mapstructure:"range"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
}

// SQLiteConfig configures the local SQLite backend.
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// TwilioConfig holds the phone numbers for outbound calls. Account
// credentials come from TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN.
type TwilioConfig struct {
	From string `yaml:"from" mapstructure:"from"`
	To   string `yaml:"to" mapstructure:"to"`
}

// ExtractionConfig configures the natural-language extraction model.
// The API key comes from OPENAI_API_KEY.
type ExtractionConfig struct {
	Model string `yaml:"model" mapstructure:"model"`
}
