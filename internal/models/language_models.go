package models

type Language string

const (
	LanguageEnglish Language = "english"
	LanguageShona   Language = "shona"
	LanguageNdebele Language = "ndebele"
	LanguageTonga   Language = "tonga"
	LanguageUnknown Language = "unknown"
)

// Languages lists every tag in report order.
var Languages = []Language{
	LanguageEnglish, LanguageShona, LanguageNdebele, LanguageTonga, LanguageUnknown,
}
