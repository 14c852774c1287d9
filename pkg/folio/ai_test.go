package folio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	require.Equal(t, []string{"ui", "branding", "web"}, ParseTags(" UI, branding,#web, ui ,\n"))
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, ParseTags("a,b,c,d,e,f,g"))
	require.Equal(t, []string{"motiondesign"}, ParseTags("motion design."))
	require.Empty(t, ParseTags(""))
}

func TestEncodeItems(t *testing.T) {
	is := []Item{{Src: "a.png", Tags: []string{"ui"}}, {Src: "b.png", Link: "https://x"}}

	bs, err := EncodeItems("projects", is)
	require.NoError(t, err)
	require.Equal(t, "projects", ItemsKey(bs))

	got, err := ParseItems(bs)
	require.NoError(t, err)
	require.Equal(t, is, got)
}
