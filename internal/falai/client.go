// Package falai calls the fal.ai inference API for image generation and
// foreground segmentation. Generated assets are cached by file existence at
// deterministic local paths; retrying a failed generation is the caller's
// responsibility.
package falai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/pkg/util"
)

// Client calls fal.ai model endpoints.
type Client struct {
	logger    zerolog.Logger
	http      *http.Client
	apiKey    string
	endpoint  string
	model     string
	maskModel string
}

// NewClient creates a fal.ai client. The API key comes from the environment,
// not the config file.
func NewClient(logger zerolog.Logger, cfg config.FalConfig, apiKey string) *Client {
	return &Client{
		logger:    logger.With().Str("component", "falai").Logger(),
		http:      &http.Client{Timeout: 180 * time.Second},
		apiKey:    apiKey,
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maskModel: cfg.MaskModel,
	}
}

type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generateRequest struct {
	Prompt    string    `json:"prompt"`
	ImageSize imageSize `json:"image_size"`
	NumImages int       `json:"num_images"`
}

type imageRef struct {
	URL string `json:"url"`
}

type generateResponse struct {
	Images []imageRef `json:"images"`
	Image  *imageRef  `json:"image"`
}

// GenerateImage generates an image for the prompt and saves it to outPath.
// An existing file at outPath short-circuits the call: caching is by
// filesystem presence, not content.
func (c *Client) GenerateImage(ctx context.Context, promptText string, width, height int, outPath string) error {
	if util.FileExists(outPath) {
		c.logger.Debug().Str("path", outPath).Msg("image exists, skipping generation")
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("fal.ai API key not set")
	}

	c.logger.Info().
		Int("width", width).
		Int("height", height).
		Str("prompt", truncate(promptText, 100)).
		Msg("generating image")

	body, err := json.Marshal(generateRequest{
		Prompt:    promptText,
		ImageSize: imageSize{Width: width, Height: height},
		NumImages: 1,
	})
	if err != nil {
		return err
	}

	result, err := c.post(ctx, c.model, body)
	if err != nil {
		return err
	}

	var parsed generateResponse
	if err := json.Unmarshal(result, &parsed); err != nil {
		return fmt.Errorf("failed to parse generation response: %w", err)
	}

	imageURL := ""
	if len(parsed.Images) > 0 {
		imageURL = parsed.Images[0].URL
	} else if parsed.Image != nil {
		imageURL = parsed.Image.URL
	}
	if imageURL == "" {
		return fmt.Errorf("no image URL in generation response")
	}

	return c.download(ctx, imageURL, outPath)
}

type segmentRequest struct {
	ImageURL     string `json:"image_url"`
	OutputFormat string `json:"output_format"`
	OutputMask   bool   `json:"output_mask"`
}

type segmentResponse struct {
	MaskImage *imageRef `json:"mask_image"`
}

// SegmentMask runs foreground segmentation on a local image and saves the
// grayscale mask (white = foreground) to maskPath. The image travels as a
// base64 data URL, so no upload step is needed.
func (c *Client) SegmentMask(ctx context.Context, imagePath, maskPath string) error {
	if util.FileExists(maskPath) {
		c.logger.Debug().Str("path", maskPath).Msg("mask exists, skipping segmentation")
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("fal.ai API key not set")
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(imagePath), base64.StdEncoding.EncodeToString(data))

	body, err := json.Marshal(segmentRequest{
		ImageURL:     dataURL,
		OutputFormat: "png",
		OutputMask:   true,
	})
	if err != nil {
		return err
	}

	c.logger.Info().Str("image", imagePath).Msg("segmenting image")

	result, err := c.post(ctx, c.maskModel, body)
	if err != nil {
		return err
	}

	var parsed segmentResponse
	if err := json.Unmarshal(result, &parsed); err != nil {
		return fmt.Errorf("failed to parse segmentation response: %w", err)
	}
	if parsed.MaskImage == nil || parsed.MaskImage.URL == "" {
		return fmt.Errorf("no mask in segmentation response")
	}

	return c.download(ctx, parsed.MaskImage.URL, maskPath)
}

func (c *Client) post(ctx context.Context, model string, body []byte) ([]byte, error) {
	url := strings.TrimRight(c.endpoint, "/") + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fal.ai request failed: %w", err)
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fal.ai returned %d: %s", resp.StatusCode, truncate(string(result), 300))
	}
	return result, nil
}

func (c *Client) download(ctx context.Context, fileURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return err
	}

	c.logger.Info().Str("path", path).Msg("image saved")
	return nil
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
