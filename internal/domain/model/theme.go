package model

type ThemeName string

const DefaultTheme ThemeName = "cyber-dark"

func Themes() []ThemeName {
	return []ThemeName{"cyber-dark", "cyber-light", "ocean-depths", "sunset-blaze", "forest-mist", "royal-purple"}
}

func ParseTheme(s string) (ThemeName, bool) {
	for _, t := range Themes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
