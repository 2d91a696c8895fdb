package editsvc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModel is the image model used when none is configured.
const DefaultModel = "gemini-2.5-flash-image"

// DefaultTimeout bounds a single edit call.
const DefaultTimeout = 2 * time.Minute

const prompt = `You are given two images. The first is a photo. The second is a black and white mask of the same size.
Remove everything covered by the white area of the mask (watermarks, logos, text overlays) and fill it in so it matches the surrounding content.
Leave every pixel under the black area unchanged. Return only the edited photo at the original resolution.`

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini edits images through the Gemini API.
type Gemini struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	once     sync.Once
	initErr  error
	generate generateFunc
}

// GeminiOption configures a Gemini editor.
type GeminiOption func(*Gemini)

// WithModel overrides the model name.
func WithModel(model string) GeminiOption { return func(g *Gemini) { g.Model = model } }

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) GeminiOption { return func(g *Gemini) { g.BaseURL = u } }

// WithTimeout bounds each edit call.
func WithTimeout(d time.Duration) GeminiOption { return func(g *Gemini) { g.Timeout = d } }

// NewGemini returns an editor using apiKey.
func NewGemini(apiKey string, opts ...GeminiOption) *Gemini {
	g := &Gemini{APIKey: strings.TrimSpace(apiKey), Model: DefaultModel, Timeout: DefaultTimeout}
	for _, o := range opts {
		o(g)
	}
	if g.Model == "" {
		g.Model = DefaultModel
	}
	return g
}

func (g *Gemini) init(ctx context.Context) error {
	g.once.Do(func() {
		if g.generate != nil {
			return
		}
		if g.APIKey == "" {
			g.initErr = ErrNoAPIKey
			return
		}
		cfg := &genai.ClientConfig{APIKey: g.APIKey, Backend: genai.BackendGeminiAPI}
		if g.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			g.initErr = fmt.Errorf("gemini client: %w", err)
			return
		}
		g.generate = client.Models.GenerateContent
	})
	return g.initErr
}

// Edit sends the image and mask and returns the first image in the reply.
func (g *Gemini) Edit(ctx context.Context, req Request) (*Result, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	if err := g.init(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	log.Debug().Str("request", req.ID).Str("model", g.Model).Int("image_bytes", len(req.Image)).Int("mask_bytes", len(req.Mask)).Msg("edit request")
	resp, err := g.generate(ctx, g.Model, buildContents(req), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	res, err := imageFromResponse(resp)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("request", req.ID).Dur("took", time.Since(start)).Str("mime", res.MIME).Msg("edit response")
	return res, nil
}

func buildContents(req Request) []*genai.Content {
	imageMIME := req.ImageMIME
	if imageMIME == "" {
		imageMIME = "image/png"
	}
	maskMIME := req.MaskMIME
	if maskMIME == "" {
		maskMIME = "image/png"
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Image, imageMIME),
		genai.NewPartFromBytes(req.Mask, maskMIME),
		genai.NewPartFromText(prompt),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func imageFromResponse(resp *genai.GenerateContentResponse) (*Result, error) {
	if resp == nil {
		return nil, ErrNoImage
	}
	var text []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &Result{Data: part.InlineData.Data, MIME: mime}, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				text = append(text, t)
			}
		}
	}
	if len(text) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, strings.Join(text, " "))
	}
	return nil, ErrNoImage
}
