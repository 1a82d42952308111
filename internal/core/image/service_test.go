package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessImageDataURI(t *testing.T) {
	svc := NewService(1 << 20)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(samplePNG(t))

	out, err := svc.ProcessImage(context.Background(), uri)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(decoded))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessImageRawBase64(t *testing.T) {
	svc := NewService(1 << 20)
	_, err := svc.ProcessImage(context.Background(), base64.StdEncoding.EncodeToString(samplePNG(t)))
	assert.NoError(t, err)
}

func TestProcessImageURL(t *testing.T) {
	data := samplePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	_, err := NewService(1<<20).ProcessImage(context.Background(), srv.URL+"/face.png")
	assert.NoError(t, err)
}

func TestProcessImageErrors(t *testing.T) {
	svc := NewService(1 << 20)

	_, err := svc.ProcessImage(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = svc.ProcessImage(context.Background(), "data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = svc.ProcessImage(context.Background(), base64.StdEncoding.EncodeToString([]byte("not an image")))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = NewService(8).ProcessImage(context.Background(), base64.StdEncoding.EncodeToString(samplePNG(t)))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProcessImageDownscalesLargeImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := NewService(1<<20).WithMaxDimension(10).ProcessImage(context.Background(), base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(decoded))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}
