package assets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewObjectKey(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	tests := []struct {
		filename string
		wantExt  string
	}{
		{"cat.PNG", ".png"},
		{"clip.final.mp4", ".mp4"},
		{"../../etc/passwd.jpg", ".jpg"},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			key := NewObjectKey(tt.filename, now)
			require.True(t, strings.HasPrefix(key, "1700000000123-"), key)
			require.True(t, strings.HasSuffix(key, tt.wantExt), key)
			require.NotContains(t, key, "/")
		})
	}

	require.NotEqual(t, NewObjectKey("a.png", now), NewObjectKey("a.png", now))
}
