package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmacdonaldsmith/umesh-go/internal/authtoken"
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/envelope"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
	"github.com/rmacdonaldsmith/umesh-go/pkg/ustatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

// run executes the root command with args and stdin, returning stdout
func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCommand()
	stdout := &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(bytes.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMainCommandHelp(t *testing.T) {
	output, err := run(t, nil, "--help")
	require.NoError(t, err)

	for _, name := range []string{"uri", "entity", "encode", "decode", "match"} {
		assert.Contains(t, output, name)
	}
}

func TestURIParse(t *testing.T) {
	output, err := run(t, nil, "uri", "parse", "//10.0.0.1/10203/1/39999", "//vcu.vin/body.access/1/door.front_left#Door")
	require.NoError(t, err)

	assert.Contains(t, output, "form:      short")
	assert.Contains(t, output, "short:     //10.0.0.1/10203/1/39999")
	assert.Contains(t, output, "form:      long")
	assert.Contains(t, output, "long:      //vcu.vin/body.access/1/door.front_left#Door")
	assert.Contains(t, output, "rpc:       false")

	output, err = run(t, nil, "uri", "parse", "*")
	require.NoError(t, err)
	assert.Contains(t, output, "matches every address")

	_, err = run(t, nil, "uri", "parse", "body.access/1/door")
	assert.ErrorIs(t, err, uri.ErrMalformedURI)
	assert.Equal(t, codes.InvalidArgument, ustatus.Code(err))
}

func TestEntityCommand(t *testing.T) {
	path := writeFile(t, "service.yaml", `service: body.access
uprotocol:
  name: body.access
  id: 10203
  major_version: 1
`)

	output, err := run(t, nil, "entity", "--descriptor", path)
	require.NoError(t, err)
	assert.Contains(t, output, "form:    resolved")
	assert.Contains(t, output, "name:    body.access")
	assert.Contains(t, output, "id:      10203")
	assert.Contains(t, output, "version: 1")

	empty := writeFile(t, "empty.yaml", "service: legacy\n")
	output, err = run(t, nil, "entity", "--descriptor", empty)
	require.NoError(t, err)
	assert.Contains(t, output, "(empty)")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, formatFlag := range []string{"json", "binary"} {
		t.Run(formatFlag, func(t *testing.T) {
			encoded, err := run(t, nil, "--format", formatFlag, "encode",
				"--source", "/body.access/1/door.front_left#Door",
				"--priority", "CS6",
				"--ttl", "3ms",
				"--hash", "somehash",
				"--token", "someToken",
				"--payload", "hello")
			require.NoError(t, err)

			output, err := run(t, []byte(encoded), "--format", formatFlag, "decode")
			require.NoError(t, err)
			assert.Contains(t, output, "source:   /body.access/1/door.front_left#Door")
			assert.Contains(t, output, "type:     pub.v1")
			assert.Contains(t, output, "priority: CS6")
			assert.Contains(t, output, "ttl:      3ms")
			assert.Contains(t, output, "hash:     somehash")
			assert.Contains(t, output, "token:    someToken")
			assert.Contains(t, output, `payload:  "hello"`)

			payload, err := run(t, []byte(encoded), "--format", formatFlag, "decode", "--payload-only")
			require.NoError(t, err)
			assert.Equal(t, "hello", payload)
		})
	}
}

func TestEncode_WritesDecodableJSON(t *testing.T) {
	encoded, err := run(t, nil, "encode", "--source", "//10.0.0.1/10203/1/39999")
	require.NoError(t, err)

	env, err := envelope.Decode(envelope.FormatJSON, []byte(strings.TrimSpace(encoded)))
	require.NoError(t, err)
	assert.Equal(t, attributes.PriorityStandard, env.Attributes.Priority())
	_, hasTTL := env.Attributes.TTL()
	assert.False(t, hasTTL)
	assert.Nil(t, env.Payload)
}

func TestEncode_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"pattern source", []string{"--source", "/body.access/*/door"}, attributes.ErrInvalidSource},
		{"bad priority", []string{"--source", "/hvac/2/fan", "--priority", "CS9"}, attributes.ErrInvalidPriority},
		{"sub-millisecond ttl", []string{"--source", "/hvac/2/fan", "--ttl", "1500us"}, attributes.ErrInvalidTTL},
		{"request without sink", []string{"--source", "/hvac/2/fan", "--type", "req.v1"}, attributes.ErrMissingSink},
		{"malformed source", []string{"--source", "hvac"}, uri.ErrMalformedURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, nil, append([]string{"encode"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, codes.InvalidArgument, ustatus.Code(err))
		})
	}
}

func TestEncodeDecode_TokenSecret(t *testing.T) {
	encoded, err := run(t, nil, "--format", "binary", "encode",
		"--source", "/climate.app/1/ui",
		"--sink", "/hvac/2/rpc.SetTemperature",
		"--type", "req.v1",
		"--token-secret", "s3cret")
	require.NoError(t, err)

	_, err = run(t, []byte(encoded), "--format", "binary", "decode", "--verify-secret", "s3cret")
	require.NoError(t, err)

	_, err = run(t, []byte(encoded), "--format", "binary", "decode", "--verify-secret", "wrong")
	assert.ErrorIs(t, err, authtoken.ErrInvalidToken)
}

func TestEncodeDecode_HashPayload(t *testing.T) {
	encoded, err := run(t, nil, "encode", "--source", "/hvac/2/fan", "--hash-payload", "--payload", "speed=3")
	require.NoError(t, err)

	output, err := run(t, []byte(encoded), "decode", "--check-hash")
	require.NoError(t, err)
	assert.Contains(t, output, "hash:     "+attributes.Digest([]byte("speed=3")))

	tampered, err := run(t, nil, "encode", "--source", "/hvac/2/fan", "--hash", "somehash", "--payload", "speed=3")
	require.NoError(t, err)
	_, err = run(t, []byte(tampered), "decode", "--check-hash")
	assert.ErrorIs(t, err, errHashMismatch)
}

func TestDecode_Malformed(t *testing.T) {
	encoded, err := run(t, nil, "--format", "binary", "encode", "--source", "/hvac/2/fan", "--payload", "x")
	require.NoError(t, err)

	truncated := []byte(encoded)[:len(encoded)/2]
	output, err := run(t, truncated, "--format", "binary", "decode")
	assert.ErrorIs(t, err, envelope.ErrMalformedEnvelope)
	assert.Equal(t, codes.DataLoss, ustatus.Code(err))
	assert.Empty(t, output)
}

func TestMatch(t *testing.T) {
	rules := writeFile(t, "rules.yaml", `rules:
  - name: doors
    source: /body.access/*/door.*
  - name: everything
  - name: hvac-requests
    sink: /hvac/2/rpc.SetTemperature
  - name: vcu-only
    source: //vcu.vin/body.access/1/door.front_left
`)

	door, err := run(t, nil, "encode", "--source", "/body.access/1/door.front_left")
	require.NoError(t, err)
	output, err := run(t, []byte(door), "match", "--rules", rules)
	require.NoError(t, err)
	assert.Equal(t, "doors\neverything\n", output)

	request, err := run(t, nil, "encode", "--source", "/climate.app/1/ui",
		"--sink", "/hvac/2/rpc.SetTemperature", "--type", "req.v1")
	require.NoError(t, err)
	output, err = run(t, []byte(request), "match", "--rules", rules)
	require.NoError(t, err)
	assert.Equal(t, "everything\nhvac-requests\n", output)
}

func TestMatch_InvalidRules(t *testing.T) {
	door, err := run(t, nil, "encode", "--source", "/body.access/1/door.front_left")
	require.NoError(t, err)

	empty := writeFile(t, "empty.yaml", "rules: []\n")
	_, err = run(t, []byte(door), "match", "--rules", empty)
	assert.ErrorIs(t, err, errNoRules)

	badURI := writeFile(t, "bad.yaml", "rules:\n  - name: broken\n    source: not-a-uri\n")
	_, err = run(t, []byte(door), "match", "--rules", badURI)
	assert.Error(t, err)

	duplicate := writeFile(t, "dup.yaml", "rules:\n  - name: a\n  - name: a\n")
	_, err = run(t, []byte(door), "match", "--rules", duplicate)
	assert.Error(t, err)
}

func TestGlobalFlags_UnsupportedFormat(t *testing.T) {
	_, err := run(t, nil, "--format", "xml", "uri", "parse", "*")
	assert.ErrorIs(t, err, envelope.ErrUnsupportedFormat)
	assert.Equal(t, codes.Unimplemented, ustatus.Code(err))
}
