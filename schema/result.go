package schema

import (
	"encoding/json"
	"fmt"
)

// Kind tags a Result.
type Kind string

const (
	KindHelp      Kind = "help"
	KindSuccess   Kind = "success"
	KindError     Kind = "error"
	KindList      Kind = "list"
	KindEasterEgg Kind = "easter-egg"
	KindLoading   Kind = "loading"
	KindClear     Kind = "clear"
	KindClose     Kind = "close"
	KindPage      Kind = "page"
	KindGreeting  Kind = "greeting"
	KindCommand   Kind = "command"
)

var kinds = []Kind{
	KindHelp,
	KindSuccess,
	KindError,
	KindList,
	KindEasterEgg,
	KindLoading,
	KindClear,
	KindClose,
	KindPage,
	KindGreeting,
	KindCommand,
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsControl reports whether the kind signals the session rather than carrying content.
func (k Kind) IsControl() bool {
	return k == KindClear || k == KindClose
}

// BlockType tags a Block.
type BlockType string

const (
	BlockHeader    BlockType = "header"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
)

// Block is a single renderable unit of a Result.
// Text is used by header and paragraph blocks, Items by list blocks.
type Block struct {
	Type  BlockType `json:"type"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// Header returns a header block.
func Header(text string) Block {
	return Block{Type: BlockHeader, Text: text}
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Type: BlockParagraph, Text: text}
}

// List returns a list block holding a copy of items.
func List(items ...string) Block {
	return Block{Type: BlockList, Items: append([]string(nil), items...)}
}

// Result is what the command engine returns for every invocation.
type Result struct {
	Kind    Kind    `json:"type"`
	Content []Block `json:"content"`
	// PageName and OriginatingCommand are only set for KindLoading.
	PageName           PageName `json:"pageName,omitempty"`
	OriginatingCommand string   `json:"cmd,omitempty"`
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := r
	if r.Content != nil {
		out.Content = make([]Block, len(r.Content))
		for i, block := range r.Content {
			out.Content[i] = block
			if block.Items != nil {
				out.Content[i].Items = append([]string(nil), block.Items...)
			}
		}
	}
	return out
}

// DecodeBlocks parses a page payload. Blocks with types outside the
// header/paragraph/list set are skipped; skipped reports how many.
func DecodeBlocks(data []byte) (blocks []Block, skipped int, err error) {
	var raw []Block
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	blocks = make([]Block, 0, len(raw))
	for _, block := range raw {
		switch block.Type {
		case BlockHeader, BlockParagraph:
			blocks = append(blocks, Block{Type: block.Type, Text: block.Text})
		case BlockList:
			blocks = append(blocks, List(block.Items...))
		default:
			skipped++
		}
	}
	return blocks, skipped, nil
}
