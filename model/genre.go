package model

// Genre 表示一个流派，Artist 和 Album 通过 ID 引用
type Genre struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func (g *Genre) UnmarshalJSON(data []byte) error {
	type alias Genre
	return decodeWithIdentity(data, (*alias)(g), &g.ID)
}

// GenrePayload is the canonical create/update body for /genres.
type GenrePayload struct {
	Name string `json:"name"`
}
