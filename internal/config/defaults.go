package config

import (
	"os"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Addr:      ":8080",
			PublicURL: "http://localhost:8080",
		},
		Briefing: BriefingConfig{
			Hour:       7,
			Minute:     30,
			Timezone:   "America/New_York",
			WindowDays: 5,
		},
		Store: StoreConfig{
			Backend: "sheets",
			Sheets: SheetsConfig{
				Range:           "Tasks!A2:D",
				CredentialsFile: "credentials.json",
			},
			SQLite: SQLiteConfig{
				Path: "~/.taskme/tasks.db",
			},
		},
		Extraction: ExtractionConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// WriteDefault writes a commented default configuration to a file.
func WriteDefault(path string) error {
	content := `# taskme configuration
version: "1"

server:
  addr: ":8080"
  # Externally reachable base URL for Twilio webhooks
  public_url: "http://localhost:8080"

# Daily briefing call
briefing:
  hour: 7
  minute: 30
  timezone: America/New_York
  window_days: 5

# Task store: "sheets" (Google Sheets) or "sqlite" (local file)
store:
  backend: sheets
  sheets:
    spreadsheet_id: ""
    range: "Tasks!A2:D"
    credentials_file: credentials.json
  sqlite:
    path: ~/.taskme/tasks.db

# Phone numbers for the outbound briefing call.
# Credentials come from TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN env vars.
twilio:
  from: ""
  to: ""

# Task extraction model. API key comes from OPENAI_API_KEY.
extraction:
  model: gpt-4o-mini
`
	return os.WriteFile(path, []byte(content), 0644)
}
