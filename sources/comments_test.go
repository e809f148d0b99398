package sources

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/kova98/feedview.api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentJSON(id, replies string) string {
	if replies == "" {
		replies = `""`
	}
	return fmt.Sprintf(`{"kind": "t1", "data": {"id": %q, "author": "u_%s", "body": "body %s",
		"created_utc": 1700000000, "score": 1, "replies": %s}}`, id, id, id, replies)
}

func repliesJSON(children ...string) string {
	return `{"kind": "Listing", "data": {"children": [` + strings.Join(children, ",") + `]}}`
}

func commentChildren(t *testing.T, children ...string) []models.RedditChild {
	t.Helper()
	var out []models.RedditChild
	require.NoError(t, json.Unmarshal([]byte("["+strings.Join(children, ",")+"]"), &out))
	return out
}

func TestBuildCommentTree_FiveLevelsDeep(t *testing.T) {
	level4 := commentJSON("e", "")
	level3 := commentJSON("d", repliesJSON(level4))
	level2 := commentJSON("c", repliesJSON(level3))
	level1 := commentJSON("b", repliesJSON(level2))
	level0 := commentJSON("a", repliesJSON(level1))

	roots, dropped := BuildCommentTree(commentChildren(t, level0))

	assert.Equal(t, 0, dropped)
	flat := FlattenComments(roots)
	require.Len(t, flat, 5)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, id, flat[i].Comment.ID)
		assert.Equal(t, i, flat[i].Depth)
	}
	assert.Nil(t, flat[4].Comment.Replies)
}

func TestBuildCommentTree_PreservesSiblingOrder(t *testing.T) {
	first := commentJSON("1", repliesJSON(commentJSON("1a", ""), commentJSON("1b", "")))
	second := commentJSON("2", repliesJSON(commentJSON("2a", repliesJSON(commentJSON("2a-i", "")))))
	third := commentJSON("3", "")

	roots, _ := BuildCommentTree(commentChildren(t, first, second, third))

	require.Len(t, roots, 3)
	assert.Equal(t, "1", roots[0].ID)
	assert.Equal(t, "2", roots[1].ID)
	assert.Equal(t, "3", roots[2].ID)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "1a", roots[0].Replies[0].ID)
	assert.Equal(t, "1b", roots[0].Replies[1].ID)

	var order []string
	var depths []int
	for _, fc := range FlattenComments(roots) {
		order = append(order, fc.Comment.ID)
		depths = append(depths, fc.Depth)
	}
	assert.Equal(t, []string{"1", "1a", "1b", "2", "2a", "2a-i", "3"}, order)
	assert.Equal(t, []int{0, 1, 1, 0, 1, 2, 0}, depths)
}

func TestBuildCommentTree_DropsMalformedAndMoreMarkers(t *testing.T) {
	more := `{"kind": "more", "data": {"count": 12, "children": ["x", "y"]}}`
	noBody := `{"kind": "t1", "data": {"id": "nb", "author": "a", "created_utc": 1, "score": 1}}`
	parent := commentJSON("p", repliesJSON(noBody, commentJSON("child", ""), more))

	roots, dropped := BuildCommentTree(commentChildren(t, parent, more))

	require.Len(t, roots, 1)
	assert.Equal(t, 1, dropped)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, "child", roots[0].Replies[0].ID)
}

func TestBuildCommentTree_MalformedEnvelopeDropsOnlyThatReply(t *testing.T) {
	parent := commentJSON("a", repliesJSON(commentJSON("b", ""), `{"kind": 3}`, `7`, commentJSON("c", "")))

	roots, dropped := BuildCommentTree(commentChildren(t, parent, `{"kind": 3, "data": {}}`))

	require.Len(t, roots, 1)
	assert.Equal(t, 3, dropped)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "b", roots[0].Replies[0].ID)
	assert.Equal(t, "c", roots[0].Replies[1].ID)
}

func TestBuildCommentTree_NonListingRepliesMeansNone(t *testing.T) {
	withNull := commentJSON("n", "null")
	withEmpty := commentJSON("e", `""`)
	withoutData := commentJSON("d", `{"kind": "Listing"}`)

	roots, dropped := BuildCommentTree(commentChildren(t, withNull, withEmpty, withoutData))

	assert.Equal(t, 0, dropped)
	require.Len(t, roots, 3)
	for _, c := range roots {
		assert.Nil(t, c.Replies)
	}
}

func TestBuildCommentTree_VeryDeepThread(t *testing.T) {
	const depth = 500
	node := commentJSON(fmt.Sprint(depth-1), "")
	for i := depth - 2; i >= 0; i-- {
		node = commentJSON(fmt.Sprint(i), repliesJSON(node))
	}

	roots, _ := BuildCommentTree(commentChildren(t, node))

	flat := FlattenComments(roots)
	require.Len(t, flat, depth)
	assert.Equal(t, depth-1, flat[depth-1].Depth)
}

func TestFlattenComments_Empty(t *testing.T) {
	assert.Empty(t, FlattenComments(nil))
}
