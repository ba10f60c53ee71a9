package model

// Plaque is an award record embedded in an album.
type Plaque struct {
	Type       string `json:"plaque_type"`
	ImageURL   string `json:"plaque_image_url"`
	PriceRange string `json:"plaque_price_range"`
}

// Album 表示一张专辑。Duration 以秒为单位。
type Album struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title"`
	Artist        Reference `json:"artist"`
	Genre         Reference `json:"genre"`
	GenreID       string    `json:"genre_id,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty"`
	CoverArt      string    `json:"cover_art,omitempty"`
	Description   string    `json:"description,omitempty"`
	TrackCount    int       `json:"track_count"`
	CopyrightInfo string    `json:"copyright_info,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	Credits       string    `json:"credits,omitempty"`
	Affiliation   string    `json:"affiliation,omitempty"`
	Duration      int       `json:"duration"`
	IsPublished   bool      `json:"is_published"`
	IsFeatured    bool      `json:"is_featured"`
	Plaques       []Plaque  `json:"plaqueArray"`
	CreatedAt     string    `json:"createdAt,omitempty"`
	UpdatedAt     string    `json:"updatedAt,omitempty"`
}

func (a *Album) UnmarshalJSON(data []byte) error {
	type alias Album
	return decodeWithIdentity(data, (*alias)(a), &a.ID)
}

// AlbumPayload is the canonical create/update body for /albums.
// Artist and Genre are bare IDs; GenreID repeats Genre for older API builds.
type AlbumPayload struct {
	Title         string   `json:"title"`
	Artist        string   `json:"artist"`
	Genre         string   `json:"genre"`
	GenreID       string   `json:"genre_id"`
	ReleaseDate   *string  `json:"release_date,omitempty"`
	CoverArt      *string  `json:"cover_art,omitempty"`
	Description   *string  `json:"description,omitempty"`
	TrackCount    int      `json:"track_count"`
	CopyrightInfo *string  `json:"copyright_info,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	Credits       *string  `json:"credits,omitempty"`
	Affiliation   *string  `json:"affiliation,omitempty"`
	Duration      int      `json:"duration"`
	IsPublished   bool     `json:"is_published"`
	IsFeatured    bool     `json:"is_featured"`
	Plaques       []Plaque `json:"plaqueArray"`
}
