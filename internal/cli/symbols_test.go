package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shadergen/internal/shader"
)

func TestSymbolsText(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewSymbolsCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	require.NoError(t, cmd.Execute())

	want := "attribute highp vec3 position\n" +
		"attribute vec2 uv\n" +
		"uniform mat4 mvp\n" +
		"uniform sampler2D texture\n"
	assert.Equal(t, want, buf.String())
}

func TestSymbolsJSON(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewSymbolsCommand(testRootOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Attributes []shader.Symbol `json:"attributes"`
			Uniforms   []shader.Symbol `json:"uniforms"`
			SourceHash string          `json:"source_hash"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	require.Len(t, resp.Data.Attributes, 2)
	assert.Equal(t, shader.Symbol{Kind: shader.KindAttribute, Precision: shader.PrecisionHigh, Type: "vec3", Name: "position"}, resp.Data.Attributes[0])
	require.Len(t, resp.Data.Uniforms, 2)
	assert.Equal(t, "mvp", resp.Data.Uniforms[0].Name)
	assert.Equal(t, "texture", resp.Data.Uniforms[1].Name)
	assert.NotEmpty(t, resp.Data.SourceHash)
}

func TestSymbolsMissingShader(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSymbolsCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/does/not/exist.vert", "/does/not/exist.frag"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "vertex shader does not exist")
}
