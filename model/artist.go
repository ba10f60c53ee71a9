package model

// Artist 表示一个艺人
type Artist struct {
	ID                string    `json:"_id,omitempty"`
	Name              string    `json:"name"`
	FirstName         string    `json:"firstName,omitempty"`
	LastName          string    `json:"lastName,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CoverPhoto        string    `json:"cover_photo,omitempty"`
	Genre             Reference `json:"genre"`
	User              Reference `json:"user"`
	CreatedAt         string    `json:"createdAt,omitempty"`
	UpdatedAt         string    `json:"updatedAt,omitempty"`
}

func (a *Artist) UnmarshalJSON(data []byte) error {
	type alias Artist
	return decodeWithIdentity(data, (*alias)(a), &a.ID)
}

// ArtistPayload is the canonical create/update body for /artists.
// Genre and User are always bare IDs.
type ArtistPayload struct {
	Name              string  `json:"name"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	CoverPhoto        *string `json:"cover_photo,omitempty"`
	Genre             string  `json:"genre"`
	User              string  `json:"user"`
}
