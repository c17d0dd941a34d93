package builder

import (
	"errors"
	"testing"

	"slowreveal/internal/storage"
)

func TestUploadRejectsBadLink(t *testing.T) {
	u := &Upload{Method: SourceLink, Link: "https://example.com/page.html"}
	errs, err := u.Next()
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("next = %v, want ErrInvalidForm", err)
	}
	if errs["link"] == "" {
		t.Fatalf("missing link field error")
	}
	if u.Step() != 0 {
		t.Fatalf("advanced past invalid source")
	}
}

func TestUploadRequiresTitle(t *testing.T) {
	u := &Upload{Method: SourceLink, Link: "https://example.com/map.png"}
	if errs, err := u.Next(); err != nil || len(errs) > 0 {
		t.Fatalf("next: %v %v", err, errs)
	}
	_, errs, err := u.Finish(storage.NewMemoryStore())
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("finish = %v, want ErrInvalidForm", err)
	}
	if errs["title"] == "" {
		t.Fatalf("missing title field error")
	}
}

func TestUploadBackDiscardsRef(t *testing.T) {
	u := &Upload{Method: SourceLink, Link: "https://example.com/map.png", Title: "t"}
	u.Next()
	u.Back()
	if u.Step() != 0 {
		t.Fatalf("back did not return to source step")
	}
	if _, _, err := u.Finish(storage.NewMemoryStore()); err == nil {
		t.Fatalf("finish allowed without completed source step")
	}
}

func TestUploadFinishOutOfOrder(t *testing.T) {
	u := &Upload{Method: SourceLink, Link: "https://example.com/map.png", Title: "t"}
	if _, _, err := u.Finish(storage.NewMemoryStore()); err == nil {
		t.Fatalf("finish before next must fail")
	}
}
