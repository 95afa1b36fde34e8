package models

import "time"

// Comment is a remark on an image. ParentID links replies to their parent
// comment; a parent always belongs to the same image.
type Comment struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ImageID   int       `db:"image_id" json:"image_id"`
	ParentID  *int      `db:"parent_id" json:"parent_id,omitempty"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CommentNode is a comment with its replies attached, built from the flat
// rows at serialization time.
type CommentNode struct {
	Comment
	Username string         `json:"username,omitempty"`
	Replies  []*CommentNode `json:"replies"`
}

// BuildCommentTree assembles top-level nodes from flat rows ordered by
// creation time. Replies stay a derived index over the flat slice, so the
// structure never recurses during storage.
func BuildCommentTree(comments []Comment, usernames map[int]string) []*CommentNode {
	nodes := make(map[int]*CommentNode, len(comments))
	ordered := make([]*CommentNode, 0, len(comments))
	for _, c := range comments {
		node := &CommentNode{Comment: c, Username: usernames[c.UserID], Replies: []*CommentNode{}}
		nodes[c.ID] = node
		ordered = append(ordered, node)
	}

	var roots []*CommentNode
	for _, node := range ordered {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
