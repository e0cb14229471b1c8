package models

// Language selects the presentation language of the profile settings.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageBoth    Language = "both"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageBoth:
		return true
	}
	return false
}

// Preferences are the profile settings kept on this device.
type Preferences struct {
	Notifications bool     `json:"notifications"`
	Language      Language `json:"language"`
}

func DefaultPreferences() Preferences {
	return Preferences{Notifications: true, Language: LanguageEnglish}
}
