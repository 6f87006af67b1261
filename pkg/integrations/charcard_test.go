package integrations

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestPNG encodes a w x h image and, when cards is non-empty, inserts a
// tEXt chunk per keyword right after IHDR.
func createTestPNG(t *testing.T, w, h int, cards map[string]string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	if len(cards) == 0 {
		return buf.Bytes()
	}

	raw := buf.Bytes()
	ihdrEnd := 8 + 8 + 13 + 4
	out := append([]byte{}, raw[:ihdrEnd]...)
	for keyword, payload := range cards {
		text := append([]byte(keyword+"\x00"), base64.StdEncoding.EncodeToString([]byte(payload))...)
		out = append(out, textChunk(text)...)
	}
	return append(out, raw[ihdrEnd:]...)
}

func textChunk(text []byte) []byte {
	chunk := make([]byte, 8, 12+len(text))
	binary.BigEndian.PutUint32(chunk, uint32(len(text)))
	copy(chunk[4:], "tEXt")
	chunk = append(chunk, text...)
	crc := crc32.NewIEEE()
	crc.Write(chunk[4:])
	return binary.BigEndian.AppendUint32(chunk, crc.Sum32())
}

func TestReadPNGCard(t *testing.T) {
	raw := createTestPNG(t, 4, 4, map[string]string{
		"chara": `{"spec":"chara_card_v2","data":{"name":"顾蔺","description":"最新版","creator":"lu","tags":["a"]}}`,
	})

	card, err := ReadPNGCard(raw)
	if err != nil {
		t.Fatalf("ReadPNGCard() error = %v", err)
	}
	if card.Name != "顾蔺" {
		t.Errorf("Name = %q, want 顾蔺", card.Name)
	}
	if card.Description != "最新版" {
		t.Errorf("Description = %q", card.Description)
	}
	if card.Spec != "chara_card_v2" {
		t.Errorf("Spec = %q", card.Spec)
	}
	if len(card.Tags) != 1 {
		t.Errorf("Tags = %v", card.Tags)
	}
}

func TestReadPNGCard_PrefersV3(t *testing.T) {
	raw := createTestPNG(t, 2, 2, map[string]string{
		"chara": `{"name":"old"}`,
		"ccv3":  `{"spec":"chara_card_v3","data":{"name":"new"}}`,
	})

	card, err := ReadPNGCard(raw)
	if err != nil {
		t.Fatalf("ReadPNGCard() error = %v", err)
	}
	if card.Name != "new" {
		t.Errorf("Name = %q, want new", card.Name)
	}
}

func TestReadPNGCard_Errors(t *testing.T) {
	if _, err := ReadPNGCard([]byte("GIF89a")); !errors.Is(err, ErrNotPNG) {
		t.Errorf("expected ErrNotPNG, got %v", err)
	}

	plain := createTestPNG(t, 2, 2, nil)
	if _, err := ReadPNGCard(plain); !errors.Is(err, ErrNoCardData) {
		t.Errorf("expected ErrNoCardData, got %v", err)
	}

	truncated := plain[:20]
	if _, err := ReadPNGCard(truncated); !errors.Is(err, ErrNotPNG) {
		t.Errorf("expected ErrNotPNG for truncated file, got %v", err)
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantSpec string
		wantErr  bool
	}{
		{"v1", `{"name":"A","description":"d"}`, "A", "chara_card_v1", false},
		{"v2", `{"spec":"chara_card_v2","data":{"name":"B"}}`, "B", "chara_card_v2", false},
		{"no name", `{"spec":"chara_card_v2","data":{}}`, "", "", true},
		{"not json", `nope`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := ParseCard([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrNoCardData) {
					t.Errorf("expected ErrNoCardData, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard() error = %v", err)
			}
			if card.Name != tt.wantName || card.Spec != tt.wantSpec {
				t.Errorf("got %+v", card)
			}
		})
	}
}
