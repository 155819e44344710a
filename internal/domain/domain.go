package domain

import "fmt"

// Doc types accepted by the drafting service. The value doubles as the
// export file extension.
const (
	DocTypeWord   = "docx"
	DocTypeSlides = "pptx"
)

// Project statuses are server-authoritative; the client only reflects them.
const (
	StatusDraft      = "draft"
	StatusGenerating = "generating"
	StatusReady      = "ready"
)

const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

type Project struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Topic     string `json:"topic"`
	DocType   string `json:"doc_type" enum:"docx,pptx"`
	Status    string `json:"status" enum:"draft,generating,ready"`
	CreatedAt string `json:"created_at" format:"date-time"`
	UpdatedAt string `json:"updated_at" format:"date-time"`
}

type Section struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Position    int     `json:"position"`
	Content     string  `json:"content"`
	Feedback    *string `json:"feedback,omitempty"`
	LastComment *string `json:"last_comment,omitempty"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
	UpdatedAt   string  `json:"updated_at" format:"date-time"`
}

// ProjectDetail is a project with its sections in ascending position order.
type ProjectDetail struct {
	Project
	Sections []Section `json:"sections"`
}

// SectionByID returns the section with the given id, or nil.
func (d *ProjectDetail) SectionByID(id int64) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// ValidDocType reports whether s is a doc type the service accepts.
func ValidDocType(s string) bool {
	return s == DocTypeWord || s == DocTypeSlides
}

// ValidFeedback reports whether s is an accepted feedback value.
func ValidFeedback(s string) bool {
	return s == FeedbackLike || s == FeedbackDislike
}

// ExportFilename is the suggested download name for a project exported in
// the given format.
func ExportFilename(title, format string) string {
	if title == "" {
		title = "document"
	}
	return fmt.Sprintf("%s.%s", title, format)
}
