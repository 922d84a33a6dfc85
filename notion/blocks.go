package notion

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// extractableTypes is the allow-list of block kinds whose rich text
// contributes to page content.
var extractableTypes = map[string]bool{
	"paragraph":          true,
	"heading_1":          true,
	"heading_2":          true,
	"heading_3":          true,
	"bulleted_list_item": true,
	"numbered_list_item": true,
	"to_do":              true,
	"toggle":             true,
	"quote":              true,
	"callout":            true,
	"code":               true,
}

// block is one node of a page's content tree. The payload carrying the rich
// text lives under a key named after the block type, so blocks decode
// themselves from the raw object.
type block struct {
	ID          string
	Type        string
	HasChildren bool
	PlainText   []string
}

func (b *block) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.HasChildren = raw.HasChildren

	if !extractableTypes[b.Type] {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	payload, ok := fields[b.Type]
	if !ok {
		return nil
	}

	var body struct {
		RichText []richText `json:"rich_text"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil // malformed payload contributes no text, not an error
	}
	for _, rt := range body.RichText {
		if rt.PlainText != "" {
			b.PlainText = append(b.PlainText, rt.PlainText)
		}
	}
	return nil
}

type childrenResponse struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// listChildren returns all direct children of a block, following the
// continuation cursor until the API reports no more pages.
func (c *Crawler) listChildren(ctx context.Context, blockID string) ([]block, error) {
	var blocks []block
	cursor := ""

	for {
		params := url.Values{"page_size": {strconv.Itoa(c.pageSize())}}
		if cursor != "" {
			params.Set("start_cursor", cursor)
		}

		var resp childrenResponse
		if err := c.get(ctx, "/blocks/"+blockID+"/children", params, &resp); err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

// frame is one level of the descent worklist: a block list being walked, a
// cursor into it, and its depth below the page root.
type frame struct {
	blocks []block
	next   int
	depth  int
}

// pageContent extracts the text of a page by walking its block tree in
// preorder. The walk uses an explicit frame stack instead of recursion so
// the depth bound is enforced directly: a subtree below MaxDepth logs a
// warning and contributes empty text instead of failing the document or
// descending without limit into malformed structures.
func (c *Crawler) pageContent(ctx context.Context, pageID string) (string, error) {
	root, err := c.listChildren(ctx, pageID)
	if err != nil {
		return "", err
	}

	var parts []string
	stack := []frame{{blocks: root}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next >= len(f.blocks) {
			stack = stack[:len(stack)-1]
			continue
		}

		b := f.blocks[f.next]
		depth := f.depth
		f.next++

		parts = append(parts, b.PlainText...)

		if !b.HasChildren {
			continue
		}
		if depth+1 > c.maxDepth() {
			c.logger().Warn("max block depth reached", "block", b.ID, "depth", depth+1)
			continue
		}

		children, err := c.listChildren(ctx, b.ID)
		if err != nil {
			// A missing subtree costs its text, never the document.
			c.logger().Debug("failed to fetch child blocks", "block", b.ID, "err", err)
			continue
		}
		stack = append(stack, frame{blocks: children, depth: depth + 1})
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
