package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shadergen/internal/testutil"
)

const (
	fixtureVertex = `#include "common.glsl"
attribute highp vec3 position;
attribute vec2 uv;
uniform mat4 mvp;
void main() { gl_Position = mvp * vec4(position, 1.0); }
`
	fixtureFragment = `#include "common.glsl"
uniform sampler2D texture;
uniform mat4 mvp;
void main() { gl_FragColor = texture2D(texture, vec2(0.0)); }
`
	fixtureCommon = "precision mediump float;\n"
)

// shaderFixture writes a sprite shader pair with a shared include.
func shaderFixture(t *testing.T) string {
	t.Helper()
	return testutil.TempTree(t, map[string]string{
		"shaders/sprite.vert":  fixtureVertex,
		"shaders/sprite.frag":  fixtureFragment,
		"shaders/common.glsl":  fixtureCommon,
		"shaders/lib/fog.glsl": "uniform float fogDensity;\n",
	})
}

func testRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		RunIDs: testutil.NewFixedRunIDGenerator("run-test"),
	}
}

func TestGenerateText(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "export default class Shader {")
	assert.Contains(t, output, "  position: number;\n  uv: number;\n")
	assert.Contains(t, output, "  mvp: WebGLUniformLocation;\n  texture: WebGLUniformLocation;\n")
	assert.Contains(t, output, "precision mediump float;")
	assert.NotContains(t, output, "#include")
	assert.NotContains(t, output, "constructor")
}

func TestGenerateExtendsAndTransform(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"-e", "ShaderProgram", "-t", "-c", "SpriteShader",
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "export default class SpriteShader extends ShaderProgram {")
	assert.Contains(t, output, "  aPosition: number;\n  aUv: number;\n")
	assert.Contains(t, output, "  uMvp: WebGLUniformLocation;\n  uTexture: WebGLUniformLocation;\n")
	assert.Contains(t, output, "super(gl, SpriteShader.vsSource, SpriteShader.fsSource);")
}

func TestGenerateOutputFile(t *testing.T) {
	dir := shaderFixture(t)
	outFile := filepath.Join(dir, "src", "gen", "sprite.ts")

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"-o", outFile,
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Wrote "+outFile)
	assert.Contains(t, buf.String(), "2 attribute(s), 2 uniform(s)")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export default class Shader {")
}

func TestGenerateJSON(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status  string `json:"status"`
		TraceID string `json:"trace_id"`
		Data    struct {
			ClassName  string   `json:"class_name"`
			Source     string   `json:"source"`
			Includes   []string `json:"includes"`
			SourceHash string   `json:"source_hash"`
			Attributes []struct {
				Name string `json:"name"`
			} `json:"attributes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-test", resp.TraceID)
	assert.Equal(t, "Shader", resp.Data.ClassName)
	assert.Contains(t, resp.Data.Source, "export default class Shader")
	assert.Equal(t, []string{filepath.Join(dir, "shaders", "common.glsl")}, resp.Data.Includes)
	assert.Len(t, resp.Data.SourceHash, 64)
	require.Len(t, resp.Data.Attributes, 2)
	assert.Equal(t, "position", resp.Data.Attributes[0].Name)
}

func TestGenerateIncludeDir(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"shaders/fx.vert": "#include \"fog.glsl\"\nattribute vec2 position;\n",
		"shaders/fx.frag": "void main() {}\n",
		"shared/fog.glsl": "uniform float fogDensity;\n",
	})

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"-I", filepath.Join(dir, "shared"),
		filepath.Join(dir, "shaders", "fx.vert"),
		filepath.Join(dir, "shaders", "fx.frag"),
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "fogDensity: WebGLUniformLocation;")
}

// ============================================================================
// Errors
// ============================================================================

func TestGenerateMissingVertex(t *testing.T) {
	dir := shaderFixture(t)
	missing := filepath.Join(dir, "shaders", "nope.vert")

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{missing, filepath.Join(dir, "shaders", "sprite.frag")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
	assert.Contains(t, buf.String(), "vertex shader does not exist: "+missing)
}

func TestGenerateMissingFragment(t *testing.T) {
	dir := shaderFixture(t)
	missing := filepath.Join(dir, "shaders", "nope.frag")

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(dir, "shaders", "sprite.vert"), missing})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "fragment shader does not exist: "+missing)
}

func TestGenerateMissingIncludeJSON(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"a.vert": "#include \"missing.glsl\"\n",
		"a.frag": "void main() {}\n",
	})

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(dir, "a.vert"), filepath.Join(dir, "a.frag")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeIncludeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "could not find include")
	assert.Equal(t, "run-test", resp.TraceID)
}

func TestGenerateInvalidClassName(t *testing.T) {
	dir := shaderFixture(t)

	buf := &bytes.Buffer{}
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"-c", "my-shader",
		filepath.Join(dir, "shaders", "sprite.vert"),
		filepath.Join(dir, "shaders", "sprite.frag"),
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Error [E013]")
}

func TestGenerateWrongArgCount(t *testing.T) {
	cmd := NewGenerateCommand(testRootOptions("text"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"only.vert"})

	require.Error(t, cmd.Execute())
}
