package pubsite

import "time"

// dateLayout is the storage and form format of BlogPost.Date.
const dateLayout = "2006-01-02"

// BlogPost is the content type stored in SQLite and served under the blog root.
type BlogPost struct {
	Title     string
	Date      string
	Tags      []string // as written by the author; compared case-insensitively
	Summary   string
	Slug      string
	Content   string // Markdown
	Published bool
}

// PublishedAt parses Date, returning the zero time if it is unset or invalid.
func (p BlogPost) PublishedAt() time.Time {
	t, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
