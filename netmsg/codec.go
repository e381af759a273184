package netmsg

import (
	"encoding/json"
	"fmt"
)

// Encode marshals a typed payload into an enveloped frame.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("netmsg: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("netmsg: nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope unwraps a frame without touching the payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("netmsg: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("netmsg: frame missing type tag")
	}
	return e, nil
}

// DecodePayload unmarshals an envelope's payload into its typed form.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("netmsg: empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, err
	}
	return out, nil
}
