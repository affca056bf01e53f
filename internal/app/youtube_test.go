package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/book-expert/voice-studio/internal/app"
)

func TestIsYouTubeURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		url  string
		want bool
	}{
		{name: "watch page", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "watch page without scheme", url: "www.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "bare host watch page", url: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "mobile watch page", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "share link", url: "https://youtu.be/dQw4w9WgXcQ", want: true},
		{name: "embed path", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: true},
		{name: "shorts path", url: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: true},
		{name: "watch page without video id", url: "https://www.youtube.com/watch", want: false},
		{name: "channel page", url: "https://www.youtube.com/@somechannel", want: false},
		{name: "empty share link", url: "https://youtu.be/", want: false},
		{name: "other host", url: "https://vimeo.com/12345", want: false},
		{name: "not a url", url: "just some text", want: false},
		{name: "empty", url: "", want: false},
		{name: "ftp scheme", url: "ftp://youtube.com/watch?v=abc", want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, app.IsYouTubeURL(testCase.url))
		})
	}
}
