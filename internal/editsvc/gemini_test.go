package editsvc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

func fakeGemini(fn generateFunc) *Gemini {
	g := NewGemini("test-key", WithTimeout(time.Second))
	g.generate = fn
	return g
}

func TestGeminiEditSendsImageMaskAndPrompt(t *testing.T) {
	var gotModel string
	var gotParts []*genai.Part
	g := fakeGemini(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		if len(contents) != 1 {
			t.Fatalf("contents = %d", len(contents))
		}
		gotParts = contents[0].Parts
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("expected deadline on context")
		}
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{Data: []byte("result"), MIMEType: "image/jpeg"}},
			}},
		}}}, nil
	})
	res, err := g.Edit(context.Background(), Request{
		ID:        "abc",
		Image:     []byte("img"),
		ImageMIME: "image/webp",
		Mask:      []byte("mask"),
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if gotModel != DefaultModel {
		t.Errorf("model = %q", gotModel)
	}
	if len(gotParts) != 3 {
		t.Fatalf("parts = %d", len(gotParts))
	}
	if !bytes.Equal(gotParts[0].InlineData.Data, []byte("img")) || gotParts[0].InlineData.MIMEType != "image/webp" {
		t.Errorf("image part = %+v", gotParts[0].InlineData)
	}
	if !bytes.Equal(gotParts[1].InlineData.Data, []byte("mask")) || gotParts[1].InlineData.MIMEType != "image/png" {
		t.Errorf("mask part = %+v", gotParts[1].InlineData)
	}
	if !strings.Contains(gotParts[2].Text, "mask") {
		t.Errorf("prompt part = %q", gotParts[2].Text)
	}
	if string(res.Data) != "result" || res.MIME != "image/jpeg" {
		t.Errorf("result = %+v", res)
	}
}

func TestGeminiEditNoImage(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		text string
	}{
		{"nil", nil, ""},
		{"empty", &genai.GenerateContentResponse{}, ""},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "I can't do that"}}},
		}}}, "I can't do that"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := fakeGemini(func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.resp, nil
			})
			_, err := g.Edit(context.Background(), Request{})
			if !errors.Is(err, ErrNoImage) {
				t.Fatalf("err = %v", err)
			}
			if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
				t.Fatalf("err %q missing %q", err, tt.text)
			}
		})
	}
}

func TestGeminiEditWrapsTransportError(t *testing.T) {
	sentinel := errors.New("403 forbidden")
	g := fakeGemini(func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, sentinel
	})
	if _, err := g.Edit(context.Background(), Request{}); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	g := NewGemini("  ")
	if _, err := g.Edit(context.Background(), Request{}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v", err)
	}
}

func TestEditorFunc(t *testing.T) {
	var e Editor = EditorFunc(func(_ context.Context, req Request) (*Result, error) {
		return &Result{Data: req.Image, MIME: req.ImageMIME}, nil
	})
	res, err := e.Edit(context.Background(), Request{Image: []byte{1}, ImageMIME: "image/png"})
	if err != nil || res.Data[0] != 1 {
		t.Fatalf("res = %+v err = %v", res, err)
	}
}
