package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finishlast/officesim/internal/protocol"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b, err := protocol.Encode(protocol.TypeSpeech, protocol.Speech{
		CharID: "npc-9", Text: "TPS reports?", Duration: 3000,
	})
	require.NoError(t, err)

	env, err := protocol.DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeSpeech, env.Type)

	var speech protocol.Speech
	require.NoError(t, json.Unmarshal(env.Data, &speech))
	assert.Equal(t, "npc-9", speech.CharID)
	assert.Equal(t, 3000, speech.Duration)
}

func TestEncodeNilPayloadOmitsData(t *testing.T) {
	b, err := protocol.Encode(protocol.TypeActionCancel, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"action:cancel"}`, string(b))
}

func TestDeltaCompactKeys(t *testing.T) {
	d := protocol.Delta{
		T: 1700000000000,
		G: protocol.DeltaClock{Day: 3, Minutes: 615},
		C: []protocol.CharacterCompact{{
			ID: "npc-1", X: 420, Y: 88, FacingRight: 1, State: "working",
			ActionProgress: 40, ActionID: "work", Expression: "neutral", AnimFrame: 2,
		}},
		Needs: []protocol.CharacterNeeds{{
			ID: "npc-1", Hunger: 72, Energy: 64, Social: 50, Comfort: 81,
			Fun: 33, Hygiene: 90, Bladder: 55,
		}},
	}

	b, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Contains(t, decoded, "t")
	assert.Contains(t, decoded, "g")
	assert.Contains(t, decoded, "c")
	assert.Contains(t, decoded, "n")

	c := decoded["c"].([]any)[0].(map[string]any)
	for _, key := range []string{"i", "x", "y", "f", "s", "ap", "ac", "ex", "af"} {
		assert.Contains(t, c, key)
	}

	n := decoded["n"].([]any)[0].(map[string]any)
	for _, key := range []string{"i", "h", "e", "s", "c", "f", "y", "b"} {
		assert.Contains(t, n, key)
	}
}

func TestDeltaOmitsNeedsWhenEmpty(t *testing.T) {
	b, err := json.Marshal(protocol.Delta{T: 1, G: protocol.DeltaClock{Day: 1, Minutes: 540}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"n"`)
}

func TestValidatorAcceptsWellFormedInput(t *testing.T) {
	v, err := protocol.NewValidator()
	require.NoError(t, err)

	cases := map[string]string{
		protocol.TypeRoomJoin: `{
			"roomId": "main",
			"playerName": "Pam",
			"character": {"name": "Pam", "role": "Reception", "skinTone": "#f5d0b0",
				"hairColor": "#2a1a0a", "hairStyle": "long", "shirtColor": "#3498db"}
		}`,
		protocol.TypeActionPerform: `{"actionId": "coffee"}`,
		protocol.TypePlayerMove:    `{"targetX": 360, "targetY": 200}`,
		protocol.TypePlayerSpeak:   `{"text": "hello"}`,
	}
	for msgType, payload := range cases {
		assert.NoError(t, v.Validate(msgType, json.RawMessage(payload)), msgType)
	}
}

func TestValidatorRejectsMalformedInput(t *testing.T) {
	v, err := protocol.NewValidator()
	require.NoError(t, err)

	cases := map[string]string{
		"missing room id":     `{"playerName": "Pam", "character": {"name": "Pam", "role": "Reception"}}`,
		"empty action id":     `{"actionId": ""}`,
		"move out of bounds":  `{"targetX": 9000, "targetY": 200}`,
		"move missing target": `{"targetX": 10}`,
	}

	assert.Error(t, v.Validate(protocol.TypeRoomJoin, json.RawMessage(cases["missing room id"])))
	assert.Error(t, v.Validate(protocol.TypeActionPerform, json.RawMessage(cases["empty action id"])))
	assert.Error(t, v.Validate(protocol.TypePlayerMove, json.RawMessage(cases["move out of bounds"])))
	assert.Error(t, v.Validate(protocol.TypePlayerMove, json.RawMessage(cases["move missing target"])))
	assert.Error(t, v.Validate(protocol.TypePlayerSpeak, json.RawMessage(`{"text": ""}`)))
}

func TestValidatorPayloadlessTypes(t *testing.T) {
	v, err := protocol.NewValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(protocol.TypeRoomLeave, nil))
	assert.NoError(t, v.Validate(protocol.TypeActionCancel, nil))
	assert.Error(t, v.Validate("room:explode", nil))
}
