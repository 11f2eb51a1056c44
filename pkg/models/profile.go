package models

// Profile represents a GitHub user profile shown as a card
type Profile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Company   string `json:"company"`
	Login     string `json:"login,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// SeedProfiles returns the profiles every new session starts with.
// A fresh slice is returned on each call.
func SeedProfiles() []Profile {
	return []Profile{
		{
			Name:      "Dan Abramov",
			AvatarURL: "https://avatars0.githubusercontent.com/u/810438?v=4",
			Company:   "@facebook",
		},
		{
			Name:      "Sophie Alpert",
			AvatarURL: "https://avatars2.githubusercontent.com/u/6820?v=4",
			Company:   "Humu",
		},
		{
			Name:      "Sebastian Markbåge",
			AvatarURL: "https://avatars2.githubusercontent.com/u/63648?v=4",
			Company:   "Facebook",
		},
	}
}
