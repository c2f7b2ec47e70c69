package adoption

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// CommentNode is one comment plus its nested replies, shaped for the frontend.
type CommentNode struct {
	ID        primitive.ObjectID  `json:"id"`
	UserID    primitive.ObjectID  `json:"user_id"`
	Text      string              `json:"comment"`
	ParentID  *primitive.ObjectID `json:"parent_id,omitempty"`
	UserName  string              `json:"user_name"`
	CreatedAt time.Time           `json:"created_at"`
	Replies   []*CommentNode      `json:"replies"`
}

// BuildCommentTree converts the flat, insertion-ordered comment array of one
// adoption post into a forest of reply trees. Root order and sibling order
// follow the input order. A comment whose parent is missing from the set is
// dropped rather than promoted to a root; parent references are validated at
// write time, so an orphan here means the working set is stale, not broken.
// Display names come from names; missing entries fall back to "Unknown User".
func BuildCommentTree(comments []models.Comment, names map[primitive.ObjectID]string) []*CommentNode {
	index := make(map[primitive.ObjectID]*CommentNode, len(comments))
	for _, c := range comments {
		name, ok := names[c.UserID]
		if !ok {
			name = "Unknown User"
		}
		index[c.ID] = &CommentNode{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			ParentID:  c.ParentID,
			UserName:  name,
			CreatedAt: c.CreatedAt,
			Replies:   []*CommentNode{},
		}
	}

	roots := []*CommentNode{}
	for _, c := range comments {
		node := index[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[*c.ParentID]
		if !ok {
			continue // dangling parent: drop the orphan
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}

// CountNodes returns the total number of comments reachable in the forest.
func CountNodes(forest []*CommentNode) int {
	total := 0
	for _, n := range forest {
		total += 1 + CountNodes(n.Replies)
	}
	return total
}
