// Package models holds the record types shared by storage, duplication and the API.
package models

import "time"

// Status is a record's publication state.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPublish Status = "publish"
	StatusFuture  Status = "future"
	StatusPrivate Status = "private"
	StatusPending Status = "pending"
)

// PrimaryImageKey is the attribute key under which the primary image reference is stored.
const PrimaryImageKey = "_thumbnail_id"

// Record is a stored content item.
type Record struct {
	ID            int64     `db:"id"             json:"id"`
	Type          string    `db:"type"           json:"type"`
	Title         string    `db:"title"          json:"title"`
	Body          string    `db:"body"           json:"body"`
	Excerpt       string    `db:"excerpt"        json:"excerpt"`
	Status        Status    `db:"status"         json:"status"`
	CommentStatus string    `db:"comment_status" json:"comment_status"`
	PingStatus    string    `db:"ping_status"    json:"ping_status"`
	ParentID      int64     `db:"parent_id"      json:"parent_id"`
	MenuOrder     int       `db:"menu_order"     json:"menu_order"`
	Password      string    `db:"password"       json:"-"`
	AuthorID      string    `db:"author_id"      json:"author_id"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// Draft is the column set written when a new record is created.
type Draft struct {
	Type          string `db:"type"           json:"type"`
	Title         string `db:"title"          json:"title"`
	Body          string `db:"body"           json:"body"`
	Excerpt       string `db:"excerpt"        json:"excerpt"`
	Status        Status `db:"status"         json:"status"`
	CommentStatus string `db:"comment_status" json:"comment_status"`
	PingStatus    string `db:"ping_status"    json:"ping_status"`
	ParentID      int64  `db:"parent_id"      json:"parent_id"`
	MenuOrder     int    `db:"menu_order"     json:"menu_order"`
	Password      string `db:"password"       json:"-"`
	AuthorID      string `db:"author_id"      json:"author_id"`
}

// DraftFrom copies the duplicable fields of src into a draft of recordType
// with the given body. The draft is always StatusDraft.
func DraftFrom(src *Record, recordType, body string) Draft {
	return Draft{
		Type:          recordType,
		Title:         src.Title,
		Body:          body,
		Excerpt:       src.Excerpt,
		Status:        StatusDraft,
		CommentStatus: src.CommentStatus,
		PingStatus:    src.PingStatus,
		ParentID:      src.ParentID,
		MenuOrder:     src.MenuOrder,
		Password:      src.Password,
		AuthorID:      src.AuthorID,
	}
}

// TermAssignment links a record to one term of a taxonomy.
type TermAssignment struct {
	Taxonomy string `db:"taxonomy" json:"taxonomy"`
	TermID   int64  `db:"term_id"  json:"term_id"`
}

// Attribute is one stored value of a custom attribute. Keys may repeat.
type Attribute struct {
	Key   string `db:"meta_key"   json:"key"`
	Value string `db:"meta_value" json:"value"`
}

// TemplateNode is one element of a content type's default template.
type TemplateNode struct {
	Name       string         `json:"name"                 yaml:"name"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []TemplateNode `json:"children,omitempty"   yaml:"children,omitempty"`
}
