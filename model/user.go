package model

// User is an account that can own an artist profile.
type User struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	return decodeWithIdentity(data, (*alias)(u), &u.ID)
}

// DisplayName picks the most human label the API gave us.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.FirstName != "" || u.LastName != "":
		if u.FirstName != "" && u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
		return u.FirstName + u.LastName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
