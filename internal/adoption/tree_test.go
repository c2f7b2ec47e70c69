package adoption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/models"
)

func makeComment(id primitive.ObjectID, parent *primitive.ObjectID, text string) models.Comment {
	return models.Comment{
		ID:        id,
		UserID:    primitive.NewObjectID(),
		Text:      text,
		ParentID:  parent,
		CreatedAt: time.Now(),
	}
}

func TestBuildCommentTree(t *testing.T) {
	t.Run("every valid comment ends up in the forest", func(t *testing.T) {
		root := primitive.NewObjectID()
		replyA := primitive.NewObjectID()
		replyB := primitive.NewObjectID()
		comments := []models.Comment{
			makeComment(root, nil, "root"),
			makeComment(replyA, &root, "reply a"),
			makeComment(replyB, &root, "reply b"),
		}

		forest := BuildCommentTree(comments, nil)

		require.Len(t, forest, 1)
		assert.Equal(t, len(comments), CountNodes(forest))
	})

	t.Run("dangling parent drops the orphan without error", func(t *testing.T) {
		rootID := primitive.NewObjectID()
		missing := primitive.NewObjectID()
		comments := []models.Comment{
			makeComment(rootID, nil, "survives"),
			makeComment(primitive.NewObjectID(), &missing, "orphan"),
		}

		forest := BuildCommentTree(comments, nil)

		require.Len(t, forest, 1)
		assert.Equal(t, rootID, forest[0].ID)
		assert.Empty(t, forest[0].Replies)
	})

	t.Run("root and sibling order preserve input order", func(t *testing.T) {
		a := primitive.NewObjectID()
		b := primitive.NewObjectID()
		c := primitive.NewObjectID()
		x := primitive.NewObjectID()
		y := primitive.NewObjectID()
		comments := []models.Comment{
			makeComment(a, nil, "A"),
			makeComment(b, nil, "B"),
			makeComment(x, &b, "X"),
			makeComment(c, nil, "C"),
			makeComment(y, &b, "Y"),
		}

		forest := BuildCommentTree(comments, nil)

		require.Len(t, forest, 3)
		assert.Equal(t, []string{"A", "B", "C"}, []string{forest[0].Text, forest[1].Text, forest[2].Text})
		replies := forest[1].Replies
		require.Len(t, replies, 2)
		assert.Equal(t, "X", replies[0].Text)
		assert.Equal(t, "Y", replies[1].Text)
	})

	t.Run("deep reply chain builds a linear tree", func(t *testing.T) {
		const depth = 50
		ids := make([]primitive.ObjectID, depth)
		comments := make([]models.Comment, depth)
		for i := range ids {
			ids[i] = primitive.NewObjectID()
			var parent *primitive.ObjectID
			if i > 0 {
				parent = &ids[i-1]
			}
			comments[i] = makeComment(ids[i], parent, "level")
		}

		forest := BuildCommentTree(comments, nil)

		require.Len(t, forest, 1)
		assert.Equal(t, depth, CountNodes(forest))

		node := forest[0]
		levels := 1
		for len(node.Replies) > 0 {
			require.Len(t, node.Replies, 1)
			node = node.Replies[0]
			levels++
		}
		assert.Equal(t, depth, levels)
	})

	t.Run("author names resolve with unknown fallback", func(t *testing.T) {
		known := models.Comment{
			ID:     primitive.NewObjectID(),
			UserID: primitive.NewObjectID(),
			Text:   "hi",
		}
		unknown := makeComment(primitive.NewObjectID(), nil, "who")

		forest := BuildCommentTree(
			[]models.Comment{known, unknown},
			map[primitive.ObjectID]string{known.UserID: "Dana"},
		)

		require.Len(t, forest, 2)
		assert.Equal(t, "Dana", forest[0].UserName)
		assert.Equal(t, "Unknown User", forest[1].UserName)
	})

	t.Run("rebuilding the same input yields an identical forest", func(t *testing.T) {
		root := primitive.NewObjectID()
		comments := []models.Comment{
			makeComment(root, nil, "root"),
			makeComment(primitive.NewObjectID(), &root, "reply"),
		}

		first := BuildCommentTree(comments, nil)
		second := BuildCommentTree(comments, nil)

		assert.Equal(t, first, second)
	})

	t.Run("empty input yields empty non-nil forest", func(t *testing.T) {
		forest := BuildCommentTree(nil, nil)
		require.NotNil(t, forest)
		assert.Empty(t, forest)
	})
}
