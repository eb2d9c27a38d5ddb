package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Sheets: SheetsConfig{
			Source:       "google",
			OrdersTab:    "Orders",
			InventoryTab: "Inventory",
		},
		Channels: ChannelsConfig{
			Twilio: TwilioConfig{
				Host:        "0.0.0.0",
				Port:        8080,
				WebhookPath: "/webhook/twilio",
			},
			Telegram: TelegramConfig{
				Enabled: false,
			},
		},
		Store: StoreConfig{
			Enabled:       false,
			DBPath:        "~/.sheetbot/messages.db",
			RetentionDays: 90,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
	}
}
