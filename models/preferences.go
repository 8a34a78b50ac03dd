package models

// Allowed values for Preferences fields. The validators and the settings API
// share this catalog; anything outside it is rejected before persistence.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	DigestOff    = "off"
	DigestDaily  = "daily"
	DigestWeekly = "weekly"
)

// Languages supported by the console UI.
var Languages = []string{"en", "de", "fr", "es", "ru"}

// Preferences is the notification and display preferences document of the
// "preferences" resource.
type Preferences struct {
	// Theme is the UI color scheme: light, dark, or system.
	Theme string `json:"theme"`

	// Language is the two-letter UI language code.
	Language string `json:"language"`

	// Timezone is an IANA timezone name used to localize timestamps.
	Timezone string `json:"timezone"`

	// DateFormat is the display pattern for dates, e.g. "2006-01-02".
	DateFormat string `json:"date_format"`

	// Digest is the cadence of the summary e-mail: off, daily, or weekly.
	Digest string `json:"digest"`

	// EmailAlerts enables immediate risk alerts by e-mail.
	EmailAlerts bool `json:"email_alerts"`

	// SMSAlerts enables immediate risk alerts by SMS.
	SMSAlerts bool `json:"sms_alerts"`

	// RiskAlertThreshold is the portfolio risk score (0–100) above which
	// immediate alerts fire.
	RiskAlertThreshold int `json:"risk_alert_threshold"`
}

// DefaultPreferences returns the document assigned to a fresh account.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              ThemeSystem,
		Language:           "en",
		Timezone:           "UTC",
		DateFormat:         "2006-01-02",
		Digest:             DigestDaily,
		EmailAlerts:        true,
		SMSAlerts:          false,
		RiskAlertThreshold: 75,
	}
}
