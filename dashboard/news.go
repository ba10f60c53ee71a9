package dashboard

import (
	"context"
	"io"
	"time"

	"catalogadmin/model"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

type NewsScreen struct {
	*screen[model.News, normalize.NewsForm, model.NewsPayload]
}

func NewNewsScreen(res Resource[model.News, model.NewsPayload], uploader ImageUploader) *NewsScreen {
	return &NewsScreen{newScreen(News, res, nil, uploader)}
}

func (s *NewsScreen) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	return s.upload(ctx, storage.NewsImage, filename, r, func(f *normalize.NewsForm, url string) {
		f.Image = url
	})
}

// Live returns published items that have not expired at now.
func (s *NewsScreen) Live(now time.Time) []model.News {
	var out []model.News
	for _, n := range s.Items() {
		if n.IsPublished && !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}
