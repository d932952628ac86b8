package pubsite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func savePosts(t *testing.T, s *Store, posts ...BlogPost) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s) failed: %v", p.Slug, err)
		}
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"Go", "testing"},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	}
	savePosts(t, s, post)

	got, err := s.GetPostAny("test-post")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if !reflect.DeepEqual(got, post) {
		t.Errorf("GetPostAny = %+v, want %+v", got, post)
	}
}

func TestSavePostKeepsTagCasing(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s, BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", Tags: []string{" GoLang ", "", "WEB"}, Published: true})

	got, err := s.GetPostAny("p")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if want := []string{"GoLang", "WEB"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{Slug: "update-test", Title: "Original Title", Date: "2024-01-01", Tags: []string{"original"}, Published: true}
	savePosts(t, s, post)

	post.Title = "Updated Title"
	post.Tags = []string{"updated", "modified"}
	savePosts(t, s, post)

	got, err := s.GetPostAny("update-test")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags count = %d, want 2", len(got.Tags))
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPostAny("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPostsSkipsDrafts(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-01"},
		BlogPost{Slug: "live", Title: "Live", Date: "2024-01-02", Published: true},
	)

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "live" {
		t.Errorf("ListPosts = %+v, want only live", got)
	}
	draft, err := s.GetPostAny("draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if draft.Published {
		t.Error("Published should be false")
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Published: true},
		BlogPost{Slug: "post-2", Title: "Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}, Published: true},
		BlogPost{Slug: "post-3", Title: "Post 3", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
		BlogPost{Slug: "post-4", Title: "Post 4", Date: "2024-01-04", Tags: []string{"go"}},
	)

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3 (excluding unpublished)", len(got))
	}
	if got[0].Slug != "post-3" {
		t.Errorf("First post should be post-3 (latest), got %s", got[0].Slug)
	}
}

func TestListAllPosts(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "published", Title: "Published", Date: "2024-01-01", Published: true},
		BlogPost{Slug: "unpublished", Title: "Unpublished", Date: "2024-01-02"},
	)

	got, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListAllPosts count = %d, want 2 (including unpublished)", len(got))
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s, BlogPost{Slug: "to-delete", Title: "To Delete", Date: "2024-01-01", Published: true})

	if err := s.DeletePost("to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny("to-delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Post should not exist after delete, got err: %v", err)
	}
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",Go,web,", []string{"Go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEmptyTags(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s, BlogPost{Slug: "no-tags", Title: "No Tags", Date: "2024-01-01", Tags: []string{}, Published: true})

	got, err := s.GetPostAny("no-tags")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags should be empty, got %v", got.Tags)
	}
}
