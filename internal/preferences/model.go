package preferences

// Preferences is the stored per-user record. A nil attribute means the user
// never chose a value and clients apply their own default.
type Preferences struct {
	UserID         string
	Theme          *string
	DisplayName    *string
	DisplayPicture *string
}

// View is the response shape. Every key is always present; unset attributes
// render as null. The subject id is never exposed.
type View struct {
	Theme          *string `json:"theme"`
	DisplayName    *string `json:"displayName"`
	DisplayPicture *string `json:"displayPicture"`
}

// ViewOf strips the owner from a record.
func ViewOf(p Preferences) View {
	return View{
		Theme:          p.Theme,
		DisplayName:    p.DisplayName,
		DisplayPicture: p.DisplayPicture,
	}
}
