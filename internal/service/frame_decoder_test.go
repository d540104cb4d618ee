package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyPNGBase64 tạo một ảnh PNG hợp lệ kích thước cho trước, encode base64.
func tinyPNGBase64(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeFrame(t *testing.T) {
	validPayload := tinyPNGBase64(t, 4, 3)

	t.Run("payload hợp lệ", func(t *testing.T) {
		frame, ok := DecodeFrame(validPayload)
		assert.True(t, ok)
		assert.Equal(t, 4, frame.Width)
		assert.Equal(t, 3, frame.Height)
		assert.NotEmpty(t, frame.Bytes)
	})

	t.Run("prefix data-URI được strip", func(t *testing.T) {
		frame, ok := DecodeFrame("data:image/png;base64," + validPayload)
		assert.True(t, ok)
		assert.Equal(t, 4, frame.Width)
		assert.Equal(t, 3, frame.Height)
	})

	t.Run("base64 hỏng", func(t *testing.T) {
		_, ok := DecodeFrame("%%%không phải base64%%%")
		assert.False(t, ok)
	})

	t.Run("payload rỗng", func(t *testing.T) {
		_, ok := DecodeFrame("")
		assert.False(t, ok)
	})

	t.Run("chỉ có prefix, không có dữ liệu", func(t *testing.T) {
		_, ok := DecodeFrame("data:image/png;base64,")
		assert.False(t, ok)
	})

	t.Run("base64 hợp lệ nhưng không phải ảnh", func(t *testing.T) {
		notAnImage := base64.StdEncoding.EncodeToString([]byte("hello world"))
		_, ok := DecodeFrame(notAnImage)
		assert.False(t, ok)
	})
}
