// Package storage is the media upload adapter: it validates images and
// exchanges them for public URLs in MinIO, and browses the media buckets.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"catalogadmin/config"
	"catalogadmin/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	_ "golang.org/x/image/webp" // register WebP decoder
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrTooLarge      = errors.New("file exceeds the upload size limit")
	ErrNotImage      = errors.New("file is not an image")
	ErrUnknownTarget = errors.New("unknown upload target")
)

// UploadError wraps every failed upload. Message is the text shown to users,
// the storage service's own message when it sent one.
type UploadError struct {
	Target  Target
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload to %s failed: %s", e.Target, e.Message)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) UserMessage() string { return e.Message }

// ObjectPutter is the part of *minio.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Kind names what an image is for.
type Kind string

const (
	ArtistProfile Kind = "artist-profile"
	ArtistCover   Kind = "artist-cover"
	AlbumCover    Kind = "album-cover"
	AlbumPlaque   Kind = "album-plaque"
	TrackArt      Kind = "track-art"
	NewsImage     Kind = "news-image"
)

// Kinds lists every upload kind in a stable order.
var Kinds = []Kind{ArtistProfile, ArtistCover, AlbumCover, AlbumPlaque, TrackArt, NewsImage}

// Target is a bucket plus an optional folder inside it.
type Target struct {
	Bucket string
	Folder string
}

func (t Target) String() string {
	if t.Folder == "" {
		return t.Bucket
	}
	return t.Bucket + "/" + t.Folder
}

// Targets maps each kind to where its images live.
func Targets(cfg *config.Config) map[Kind]Target {
	return map[Kind]Target{
		ArtistProfile: {Bucket: cfg.ArtistBucket, Folder: "profile-pictures"},
		ArtistCover:   {Bucket: cfg.ArtistBucket, Folder: "cover-photos"},
		AlbumCover:    {Bucket: cfg.AlbumBucket, Folder: "cover-art"},
		AlbumPlaque:   {Bucket: cfg.AlbumBucket, Folder: "plaques"},
		TrackArt:      {Bucket: cfg.TrackBucket, Folder: "track-art"},
		NewsImage:     {Bucket: cfg.NewsBucket},
	}
}

// Buckets returns the distinct buckets the targets use.
func Buckets(targets map[Kind]Target) []string {
	var out []string
	seen := map[string]bool{}
	for _, k := range Kinds {
		b := targets[k].Bucket
		if b != "" && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// Result describes a stored image.
type Result struct {
	URL         string `json:"url"`
	Bucket      string `json:"bucket"`
	Object      string `json:"object"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Uploader validates images and stores them under collision-free names.
type Uploader struct {
	store     ObjectPutter
	publicURL string
	maxBytes  int64
	targets   map[Kind]Target
	now       func() time.Time
}

func NewUploader(store ObjectPutter, cfg *config.Config) *Uploader {
	return &Uploader{
		store:     store,
		publicURL: strings.TrimRight(cfg.MediaPublicURL, "/"),
		maxBytes:  cfg.UploadMaxBytes,
		targets:   Targets(cfg),
		now:       time.Now,
	}
}

func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

func (u *Uploader) Target(kind Kind) (Target, bool) {
	t, ok := u.targets[kind]
	return t, ok
}

// Upload reads an image from r, checks its type and size, and stores it.
// Every failure is an *UploadError.
func (u *Uploader) Upload(ctx context.Context, kind Kind, filename string, r io.Reader) (Result, error) {
	target, ok := u.targets[kind]
	if !ok {
		return Result{}, &UploadError{Message: fmt.Sprintf("unknown upload target %q", kind), Err: ErrUnknownTarget}
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return Result{}, &UploadError{Target: target, Message: "could not read the selected file", Err: err}
	}
	if len(data) == 0 {
		return Result{}, &UploadError{Target: target, Message: "the selected file is empty", Err: ErrEmptyFile}
	}
	if int64(len(data)) > u.maxBytes {
		return Result{}, &UploadError{
			Target:  target,
			Message: fmt.Sprintf("images must be %d bytes or smaller", u.maxBytes),
			Err:     ErrTooLarge,
		}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return Result{}, &UploadError{
			Target:  target,
			Message: fmt.Sprintf("only images can be uploaded, got %s", contentType),
			Err:     ErrNotImage,
		}
	}

	res := Result{
		Bucket:      target.Bucket,
		Object:      u.objectName(target.Folder, extensionFor(filename, contentType)),
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		res.Width, res.Height = cfg.Width, cfg.Height
	}

	start := time.Now()
	_, err = u.store.PutObject(ctx, res.Bucket, res.Object, bytes.NewReader(data), res.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		msg := minio.ToErrorResponse(err).Message
		if msg == "" {
			msg = err.Error()
		}
		logger.Error("image upload failed",
			logger.String("bucket", res.Bucket),
			logger.String("object", res.Object),
			logger.ErrorField(err))
		return Result{}, &UploadError{Target: target, Message: msg, Err: err}
	}

	res.URL = u.PublicURL(res.Bucket, res.Object)
	logger.Info("image uploaded",
		logger.String("kind", string(kind)),
		logger.String("url", res.URL),
		logger.Int64("size", res.Size),
		logger.Duration("elapsed", time.Since(start)))
	return res, nil
}

// PublicURL is the address an object is served from.
func (u *Uploader) PublicURL(bucket, object string) string {
	return u.publicURL + "/" + bucket + "/" + object
}

// objectName builds <folder>/<unix-millis>-<random>.<ext>.
func (u *Uploader) objectName(folder, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	name := fmt.Sprintf("%d-%s.%s", u.now().UnixMilli(), random, ext)
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// extensionFor names the object after its sniffed type; the filename only
// counts when the type has no known extension.
func extensionFor(filename, contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	}
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" && isSafeExt(ext) {
		return ext
	}
	return "img"
}

func isSafeExt(ext string) bool {
	if len(ext) > 5 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
