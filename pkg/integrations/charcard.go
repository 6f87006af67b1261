package integrations

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotPNG     = errors.New("not a PNG file")
	ErrNoCardData = errors.New("no character card data")
)

var (
	pngSignature   = []byte("\x89PNG\r\n\x1a\n")
	cardTextChunks = []string{"ccv3", "chara"}
)

// Card is the part of a character card shown to the user.
type Card struct {
	Spec        string   `json:"spec"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Creator     string   `json:"creator"`
	Tags        []string `json:"tags"`
}

func IsPNG(raw []byte) bool {
	return bytes.HasPrefix(raw, pngSignature)
}

// ReadPNGCard extracts the card stored base64-encoded in a PNG tEXt chunk.
// A "ccv3" chunk wins over "chara".
func ReadPNGCard(raw []byte) (*Card, error) {
	if !IsPNG(raw) {
		return nil, ErrNotPNG
	}

	texts := map[string][]byte{}
	for off := len(pngSignature); off+8 <= len(raw); {
		length := binary.BigEndian.Uint32(raw[off:])
		kind := string(raw[off+4 : off+8])
		start := off + 8
		end := start + int(length)
		if int(length) < 0 || end+4 > len(raw) {
			return nil, fmt.Errorf("%w: truncated %s chunk", ErrNotPNG, kind)
		}
		if kind == "tEXt" {
			if keyword, text, ok := bytes.Cut(raw[start:end], []byte{0}); ok {
				texts[string(keyword)] = text
			}
		}
		if kind == "IEND" {
			break
		}
		off = end + 4 // crc
	}

	for _, keyword := range cardTextChunks {
		encoded, ok := texts[keyword]
		if !ok {
			continue
		}
		payload, err := base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("%w: %s chunk: %v", ErrNoCardData, keyword, err)
		}
		return ParseCard(payload)
	}
	return nil, ErrNoCardData
}

// ParseCard decodes a card document. V2 and V3 cards keep their fields under
// "data"; V1 cards keep them at the top level.
func ParseCard(raw []byte) (*Card, error) {
	var doc struct {
		Card
		Data *Card `json:"data"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCardData, err)
	}

	card := doc.Card
	if doc.Data != nil {
		card = *doc.Data
		card.Spec = doc.Spec
	}
	if card.Spec == "" {
		card.Spec = "chara_card_v1"
	}
	if card.Name == "" {
		return nil, fmt.Errorf("%w: card has no name", ErrNoCardData)
	}
	return &card, nil
}
