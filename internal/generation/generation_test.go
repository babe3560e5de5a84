package generation

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"google.golang.org/genai"
)

func TestClosestAspectLabel(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		expected string
	}{
		{"exact square", 1152, 1152, "1:1"},
		{"exact wide", 1536, 864, "16:9"},
		{"exact tall", 864, 1536, "9:16"},
		{"ultrawide", 2100, 900, "21:9"},
		{"near classic photo", 1500, 1000, "3:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestAspectLabel(tt.width, tt.height); got != tt.expected {
				t.Errorf("closestAspectLabel(%d, %d) = %q, want %q", tt.width, tt.height, got, tt.expected)
			}
		})
	}
}

func TestFirstInlineImage(t *testing.T) {
	t.Run("picks the inline blob", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{
							{Text: "here is your image"},
							{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png-data")}},
						},
					},
				},
			},
		}
		out, err := firstInlineImage(resp)
		if err != nil {
			t.Fatalf("firstInlineImage() error = %v", err)
		}
		if out.MimeType != "image/png" || string(out.Data) != "png-data" {
			t.Errorf("unexpected result: %+v", out)
		}
	})

	t.Run("text-only response fails", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "just text"}}}},
			},
		}
		if _, err := firstInlineImage(resp); err == nil {
			t.Error("expected error for text-only response")
		}
	})

	t.Run("empty response fails", func(t *testing.T) {
		if _, err := firstInlineImage(nil); err == nil {
			t.Error("expected error for nil response")
		}
		if _, err := firstInlineImage(&genai.GenerateContentResponse{}); err == nil {
			t.Error("expected error for empty response")
		}
	})
}

func TestDownscaleReference(t *testing.T) {
	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
			t.Fatalf("encoding fixture: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name       string
		srcW, srcH int
		maxSize    int
		wantW      int
		wantH      int
	}{
		{"small image kept", 100, 80, 768, 100, 80},
		{"wide image capped by width", 2000, 1000, 500, 500, 250},
		{"tall image capped by height", 600, 1200, 300, 150, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DownscaleReference(encode(tt.srcW, tt.srcH), tt.maxSize)
			if err != nil {
				t.Fatalf("DownscaleReference() error = %v", err)
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decoding output: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("output format = %s, want jpeg", format)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("output size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}

	t.Run("garbage input fails", func(t *testing.T) {
		if _, err := DownscaleReference([]byte("not an image"), 768); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestIsOpenAIModel(t *testing.T) {
	openAI := []string{"gpt-image-1", "gpt-4.1-mini", "dall-e-3", "o3-mini"}
	for _, m := range openAI {
		if !isOpenAIModel(m) {
			t.Errorf("isOpenAIModel(%q) = false, want true", m)
		}
	}
	gemini := []string{"gemini-2.5-flash-image", "gemini-2.5-flash", "imagen-3.0"}
	for _, m := range gemini {
		if isOpenAIModel(m) {
			t.Errorf("isOpenAIModel(%q) = true, want false", m)
		}
	}
}
