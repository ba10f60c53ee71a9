package dashboard

import (
	"catalogadmin/model"
	"catalogadmin/normalize"
)

type GenreScreen struct {
	*screen[model.Genre, normalize.GenreForm, model.GenrePayload]
}

func NewGenreScreen(res Resource[model.Genre, model.GenrePayload]) *GenreScreen {
	return &GenreScreen{newScreen(Genres, res, nil, nil)}
}
