package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeBucket struct {
	exists  bool
	objects []minio.ObjectInfo
	removed []string
	made    []string
}

func (f *fakeBucket) BucketExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeBucket) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, name)
	return nil
}

func (f *fakeBucket) ListObjects(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.objects))
	for _, o := range f.objects {
		if len(o.Key) >= len(opts.Prefix) && o.Key[:len(opts.Prefix)] == opts.Prefix {
			ch <- o
		}
	}
	close(ch)
	return ch
}

func (f *fakeBucket) RemoveObjects(_ context.Context, _ string, in <-chan minio.ObjectInfo, _ minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	out := make(chan minio.RemoveObjectError)
	go func() {
		defer close(out)
		for o := range in {
			f.removed = append(f.removed, o.Key)
		}
	}()
	return out
}

func sampleObjects() []minio.ObjectInfo {
	t1 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	return []minio.ObjectInfo{
		{Key: "cover-art/1-a.png", Size: 100, LastModified: t1, ContentType: "image/png"},
		{Key: "plaques/2-b.jpg", Size: 50, LastModified: t2},
		{Key: "plaques/old/3-c.txt", Size: 5, LastModified: t1},
	}
}

func TestBrowserList(t *testing.T) {
	b := NewBrowser(&fakeBucket{exists: true, objects: sampleObjects()})
	objects, stats, err := b.List(context.Background(), "album", "", true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(objects) != 3 || stats.TotalObjects != 3 || stats.TotalSize != 155 {
		t.Errorf("Unexpected totals: %d objects, %+v", len(objects), stats)
	}
	if !stats.LastModified.Equal(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected latest modification, got %v", stats.LastModified)
	}
	if stats.ByClass["image"] != 150 || stats.ByClass["other"] != 5 {
		t.Errorf("Unexpected class breakdown %v", stats.ByClass)
	}
	want := []string{"cover-art", "plaques", "plaques/old"}
	if got := Folders(objects); !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want %v", got, want)
	}
}

func TestBrowserMissingBucket(t *testing.T) {
	if _, err := NewBrowser(&fakeBucket{}).Stats(context.Background(), "album", ""); err == nil {
		t.Error("Expected error for missing bucket")
	}
}

func TestBrowserRemovePrefix(t *testing.T) {
	fake := &fakeBucket{exists: true, objects: sampleObjects()}
	n, err := NewBrowser(fake).RemovePrefix(context.Background(), "album", "plaques/")
	if err != nil {
		t.Fatalf("RemovePrefix() error = %v", err)
	}
	if n != 2 || len(fake.removed) != 2 {
		t.Errorf("Expected 2 removals, got %d (%v)", n, fake.removed)
	}

	if _, err := NewBrowser(fake).RemovePrefix(context.Background(), "album", "/"); err == nil {
		t.Error("Expected refusal for empty prefix")
	}
	if _, err := NewBrowser(fake).RemovePrefix(context.Background(), "album", "nothing/"); err == nil {
		t.Error("Expected error for empty prefix match")
	}
}

func TestEnsureBuckets(t *testing.T) {
	fake := &fakeBucket{}
	if err := EnsureBuckets(context.Background(), fake, "us-east-1", "album", "", "album", "news"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fake.made, []string{"album", "news"}) {
		t.Errorf("Expected album and news created once, got %v", fake.made)
	}

	fake = &fakeBucket{exists: true}
	if err := EnsureBuckets(context.Background(), fake, "", "album"); err != nil {
		t.Fatal(err)
	}
	if len(fake.made) != 0 {
		t.Errorf("Expected no bucket creation, got %v", fake.made)
	}
}
