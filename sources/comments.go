package sources

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/models"
)

const kindMore = "more"

// FlatComment is a comment in render order with its nesting depth.
type FlatComment struct {
	Comment *data.Comment
	Depth   int
}

type pendingReplies struct {
	parent *data.Comment
	raw    json.RawMessage
}

// BuildCommentTree decodes a comment listing into a fully materialized reply
// tree. Children that are not well-formed comments, including "more"
// continuation markers, are left out. Reply levels are expanded from an
// explicit work list so deep threads do not grow the call stack.
func BuildCommentTree(children []models.RedditChild) (roots []*data.Comment, dropped int) {
	roots, work, dropped := decodeSiblings(children)

	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]

		replies, ok := replyChildren(next.raw)
		if !ok {
			continue
		}

		kids, kidWork, kidDropped := decodeSiblings(replies)
		next.parent.Replies = kids
		work = append(work, kidWork...)
		dropped += kidDropped
	}

	return roots, dropped
}

func decodeSiblings(children []models.RedditChild) ([]*data.Comment, []pendingReplies, int) {
	comments := make([]*data.Comment, 0, len(children))
	var work []pendingReplies
	dropped := 0

	for _, child := range children {
		if child.Malformed {
			dropped++
			continue
		}
		if child.Kind == kindMore {
			continue
		}
		comment, replies, err := decodeComment(child.Data)
		if err != nil {
			dropped++
			continue
		}
		comments = append(comments, comment)
		if len(replies) > 0 {
			work = append(work, pendingReplies{parent: comment, raw: replies})
		}
	}

	return comments, work, dropped
}

func decodeComment(raw json.RawMessage) (*data.Comment, json.RawMessage, error) {
	var wire models.RedditComment
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, nil, fmt.Errorf("decode comment: %w", err)
	}

	switch {
	case wire.ID == nil:
		return nil, nil, fmt.Errorf("decode comment: %w: id", errMissingField)
	case wire.Author == nil:
		return nil, nil, fmt.Errorf("decode comment: %w: author", errMissingField)
	case wire.Body == nil:
		return nil, nil, fmt.Errorf("decode comment: %w: body", errMissingField)
	case wire.CreatedUTC == nil:
		return nil, nil, fmt.Errorf("decode comment: %w: created_utc", errMissingField)
	case wire.Score == nil:
		return nil, nil, fmt.Errorf("decode comment: %w: score", errMissingField)
	}

	comment := &data.Comment{
		ID:        *wire.ID,
		Author:    *wire.Author,
		Body:      *wire.Body,
		CreatedAt: unixTime(*wire.CreatedUTC),
		Score:     *wire.Score,
	}

	return comment, wire.Replies, nil
}

// replyChildren unwraps replies -> data -> children. The API sends "" for a
// comment without replies; any non-listing value means no replies.
func replyChildren(raw json.RawMessage) ([]models.RedditChild, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var listing models.RedditListing
	if err := json.Unmarshal(trimmed, &listing); err != nil {
		return nil, false
	}
	if listing.Data == nil || listing.Data.Children == nil {
		return nil, false
	}

	return listing.Data.Children, true
}

// FlattenComments walks the tree depth-first in sibling order, assigning
// depth 0 to top-level comments.
func FlattenComments(roots []*data.Comment) []FlatComment {
	flat := make([]FlatComment, 0, len(roots))

	stack := make([]FlatComment, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, FlatComment{Comment: roots[i], Depth: 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		flat = append(flat, top)

		replies := top.Comment.Replies
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, FlatComment{Comment: replies[i], Depth: top.Depth + 1})
		}
	}

	return flat
}
