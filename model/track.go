package model

// Track represents a track in the catalog. DurationMs is in milliseconds,
// unlike Album.Duration which is in seconds.
type Track struct {
	ID                string    `json:"_id,omitempty"`
	Title             string    `json:"title"`
	Album             Reference `json:"album"`
	DurationMs        int       `json:"durationMs"`
	TrackNumber       int       `json:"trackNumber"`
	FeaturedArtists   string    `json:"featuredArtists,omitempty"`
	TrackArt          string    `json:"trackArt,omitempty"`
	TrackDescription  string    `json:"trackDescription,omitempty"`
	SpecialCredits    string    `json:"specialCredits,omitempty"`
	BackingVocals     string    `json:"backingVocals,omitempty"`
	Instrumentation   string    `json:"instrumentation,omitempty"`
	ReleaseDate       string    `json:"releaseDate,omitempty"`
	Producer          string    `json:"producer,omitempty"`
	MasteringEngineer string    `json:"masteringEngineer,omitempty"`
	MixingEngineer    string    `json:"mixingEngineer,omitempty"`
	Writer            string    `json:"writer,omitempty"`
	IsPublished       bool      `json:"isPublished"`
	CreatedAt         string    `json:"createdAt,omitempty"`
	UpdatedAt         string    `json:"updatedAt,omitempty"`
}

func (t *Track) UnmarshalJSON(data []byte) error {
	type alias Track
	return decodeWithIdentity(data, (*alias)(t), &t.ID)
}

// TrackPayload is the canonical create/update body for /tracks.
type TrackPayload struct {
	Title             string  `json:"title"`
	Album             string  `json:"album"`
	DurationMs        int     `json:"durationMs"`
	TrackNumber       int     `json:"trackNumber"`
	FeaturedArtists   *string `json:"featuredArtists,omitempty"`
	TrackArt          *string `json:"trackArt,omitempty"`
	TrackDescription  *string `json:"trackDescription,omitempty"`
	SpecialCredits    *string `json:"specialCredits,omitempty"`
	BackingVocals     *string `json:"backingVocals,omitempty"`
	Instrumentation   *string `json:"instrumentation,omitempty"`
	ReleaseDate       *string `json:"releaseDate,omitempty"`
	Producer          *string `json:"producer,omitempty"`
	MasteringEngineer *string `json:"masteringEngineer,omitempty"`
	MixingEngineer    *string `json:"mixingEngineer,omitempty"`
	Writer            *string `json:"writer,omitempty"`
	IsPublished       bool    `json:"isPublished"`
}
